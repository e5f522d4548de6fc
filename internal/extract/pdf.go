package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pageSource is the subset of a PDF reader used to collect page text.
type pageSource interface {
	NumPage() int
	// PageText returns the text of page n (1-based); ok is false for null pages.
	PageText(n int) (text string, ok bool, err error)
}

type pdfReader struct {
	r *pdf.Reader
}

func (p pdfReader) NumPage() int { return p.r.NumPage() }

func (p pdfReader) PageText(n int) (string, bool, error) {
	page := p.r.Page(n)
	if page.V.IsNull() {
		return "", false, nil
	}
	text, err := page.GetPlainText(nil)
	return text, true, err
}

func extractPDF(content []byte) (pages []Page, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return readPages(pdfReader{r: r})
}

func readPages(src pageSource) ([]Page, error) {
	numPages := src.NumPage()
	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		text, ok, err := src.PageText(i)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		if !ok {
			continue
		}
		pages = append(pages, Page{Number: i, Label: fmt.Sprintf("%d", i), Text: text})
	}
	return pages, nil
}
