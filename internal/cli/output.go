// Package cli provides output formatting for the veritas command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/hyperjump/veritas/internal/models"
	"github.com/hyperjump/veritas/pkg/utils"
)

// OutputFormat selects text or JSON output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text", "json" or "" (text).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// BuildReport summarises an index build.
type BuildReport struct {
	CorpusPath     string        `json:"corpus_path"`
	Documents      int           `json:"documents"`
	Chunks         int           `json:"chunks"`
	Skipped        int           `json:"skipped_files"`
	Failures       []FailedFile  `json:"failed_files"`
	Dimensions     int           `json:"dimensions"`
	EmbeddingModel string        `json:"embedding_model"`
	Duration       time.Duration `json:"duration_ns"`
}

// FailedFile is a file the loader could not parse.
type FailedFile struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// WriteBuildReport writes report to w in the given format.
func WriteBuildReport(w io.Writer, report *BuildReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	fmt.Fprintf(w, "Indexed %s in %s\n", report.CorpusPath, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  documents:  %d\n", report.Documents)
	fmt.Fprintf(w, "  chunks:     %d\n", report.Chunks)
	fmt.Fprintf(w, "  skipped:    %d\n", report.Skipped)
	fmt.Fprintf(w, "  failed:     %d\n", len(report.Failures))
	fmt.Fprintf(w, "  embeddings: %s (%d dimensions)\n", report.EmbeddingModel, report.Dimensions)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  ! %s: %s\n", f.Path, f.Error)
	}
	return nil
}

// WriteAnswer writes an answer and its sources to w in the given format.
func WriteAnswer(w io.Writer, ans *models.Answer, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, ans)
	}
	fmt.Fprintf(w, "\n%s\n", ans.Text)
	if len(ans.Sources) == 0 {
		fmt.Fprintln(w)
		return nil
	}
	fmt.Fprintln(w, "\nSources:")
	for i, ch := range ans.Sources {
		label := filepath.Base(ch.Source())
		if page := ch.Metadata[models.MetaPage]; page != "" {
			label += " p." + page
		}
		fmt.Fprintf(w, "  [%d] %s: %s\n", i+1, label, utils.Truncate(ch.Text, 80))
	}
	fmt.Fprintln(w)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
