package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/veritas/internal/models"
)

func sampleAnswer() *models.Answer {
	return &models.Answer{
		Question: "How long is the refund window?",
		Text:     "Returns are allowed within 30 days.",
		Sources: []*models.Chunk{{
			ID:       "file:abc/0",
			Text:     "The refund policy allows returns within 30 days.",
			Metadata: map[string]string{models.MetaSource: "/docs/handbook.pdf", models.MetaPage: "3"},
		}},
	}
}

func TestWriteAnswer_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAnswer(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Returns are allowed within 30 days.", "Sources:", "[1] handbook.pdf p.3: The refund policy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteAnswer_noSources(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, &models.Answer{Text: "I don't know."}, OutputText); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Sources:") {
		t.Errorf("unexpected sources section:\n%s", buf.String())
	}
}

func TestWriteAnswer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnswer(&buf, sampleAnswer(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.Answer
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Text != "Returns are allowed within 30 days." || len(decoded.Sources) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteBuildReport(t *testing.T) {
	report := &BuildReport{
		CorpusPath:     "/docs",
		Documents:      3,
		Chunks:         12,
		Skipped:        1,
		Failures:       []FailedFile{{Path: "/docs/bad.pdf", Error: "not a PDF file"}},
		Dimensions:     384,
		EmbeddingModel: "hash",
		Duration:       1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	if err := WriteBuildReport(&buf, report, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Indexed /docs in 1.5s", "documents:  3", "chunks:     12", "failed:     1", "! /docs/bad.pdf: not a PDF file", "hash (384 dimensions)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := WriteBuildReport(&buf, report, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded BuildReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Chunks != 12 || len(decoded.Failures) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
