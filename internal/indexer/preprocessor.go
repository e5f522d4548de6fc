package indexer

import (
	"strings"
	"unicode"

	"github.com/hyperjump/veritas/internal/models"
)

// Preprocess normalizes text before chunking (trim, collapse whitespace).
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}

// PreprocessAll returns copies of docs with normalized text.
func PreprocessAll(docs []*models.Document) []*models.Document {
	out := make([]*models.Document, len(docs))
	for i, d := range docs {
		cp := *d
		cp.Text = Preprocess(d.Text)
		out[i] = &cp
	}
	return out
}
