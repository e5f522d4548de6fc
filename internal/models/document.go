// Package models defines core data structures for documents, chunks, and conversation turns.
package models

// Metadata keys set by the loader and inherited by every chunk.
const (
	MetaSource = "source"
	MetaPage   = "page"
	MetaFormat = "format"
	MetaSheet  = "sheet"
)

// Document is one loaded file, or one page of a paginated file.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Source returns the originating file path.
func (d *Document) Source() string {
	return d.Metadata[MetaSource]
}

// Chunk is a character window of a Document. Offset is the rune offset of the
// window start within the parent text.
type Chunk struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	Text       string            `json:"text"`
	Index      int               `json:"chunk_index"`
	Offset     int               `json:"offset"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Source returns the originating file path of the chunk's document.
func (c *Chunk) Source() string {
	return c.Metadata[MetaSource]
}
