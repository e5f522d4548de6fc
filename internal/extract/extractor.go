// Package extract provides text extraction from the supported corpus formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Page is one unit of extracted text. Plain files yield a single page numbered 0;
// PDFs yield one page per PDF page starting at 1; spreadsheets one page per sheet.
type Page struct {
	Number int
	Label  string
	Text   string
}

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// SupportedExtensions lists every extension ExtractBytes understands.
func SupportedExtensions() []string {
	return []string{".txt", ".pdf", ".md", ".xlsx"}
}

// Supported reports whether ext (with leading dot, any case) can be extracted.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range SupportedExtensions() {
		if s == ext {
			return true
		}
	}
	return false
}

// Extract reads the file at path and returns its pages.
// Returns an error if the file cannot be read, cannot be parsed, or the format is unsupported.
func (e *Extractor) Extract(path string) ([]Page, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts pages from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) ([]Page, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".xlsx":
		return extractExcel(content)
	case ".txt", ".md":
		text, err := extractPlain(content)
		if err != nil {
			return nil, err
		}
		return []Page{{Text: text}}, nil
	default:
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
}
