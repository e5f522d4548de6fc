package indexer

import (
	"fmt"

	"github.com/hyperjump/veritas/internal/fileid"
	"github.com/hyperjump/veritas/internal/models"
)

// Chunker splits text into fixed-size character windows. Characters are runes.
// Each window after the first starts chunkOverlap characters before the end of the previous one.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
// Requires chunkSize > 0 and 0 <= chunkOverlap < chunkSize.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Chunk splits doc into ordered chunks that inherit its metadata.
// Empty text yields no chunks; text no longer than the chunk size yields one.
func (c *Chunker) Chunk(doc *models.Document) []*models.Chunk {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	chunks := make([]*models.Chunk, 0, len(runes)/step+1)
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		index := len(chunks)
		chunks = append(chunks, &models.Chunk{
			ID:         fileid.ChunkID(doc.ID, index),
			DocumentID: doc.ID,
			Text:       string(runes[start:end]),
			Index:      index,
			Offset:     start,
			Metadata:   copyMetadata(doc.Metadata),
		})
		if end >= len(runes) {
			break
		}
	}
	return chunks
}

// ChunkAll chunks every document, preserving document order.
func (c *Chunker) ChunkAll(docs []*models.Document) []*models.Chunk {
	var out []*models.Chunk
	for _, d := range docs {
		out = append(out, c.Chunk(d)...)
	}
	return out
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
