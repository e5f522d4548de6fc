// Package fileid provides deterministic document and chunk IDs derived from file paths.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

const prefix = "file:"

// FileDocID returns a stable document ID for the given path.
// Same path always yields the same ID.
func FileDocID(path string) string {
	normalized := filepath.Clean(path)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}

// PartDocID returns the ID of one part (page or sheet) of a multi-part file.
// Part 0 is the whole file and returns FileDocID.
func PartDocID(path string, part int) string {
	if part == 0 {
		return FileDocID(path)
	}
	return fmt.Sprintf("%s#%d", FileDocID(path), part)
}

// ChunkID returns the ID of the index-th chunk of a document.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s/%d", docID, index)
}
