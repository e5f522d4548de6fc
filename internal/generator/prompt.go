package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/veritas/internal/models"
)

// PromptBuilder assembles the single prompt sent to the language model:
// preamble, retrieved chunks in rank order, prior turns oldest first, then the question.
type PromptBuilder struct {
	Preamble string
	// MaxChars caps the prompt length in characters; 0 means unlimited. When over budget the
	// oldest turns are dropped first, then the lowest-ranked chunks. Preamble and question are kept.
	MaxChars int
}

// Prompt is an assembled prompt and how much context made it in.
type Prompt struct {
	Text       string
	ChunksUsed int
	TurnsUsed  int
}

// Build renders the prompt within the character budget.
func (b PromptBuilder) Build(question string, chunks []*models.Chunk, history []models.Turn) Prompt {
	firstTurn := 0
	numChunks := len(chunks)
	for {
		text := b.render(question, chunks[:numChunks], history[firstTurn:])
		over := b.MaxChars > 0 && utf8.RuneCountInString(text) > b.MaxChars
		switch {
		case over && firstTurn < len(history):
			firstTurn++
		case over && numChunks > 0:
			numChunks--
		default:
			return Prompt{Text: text, ChunksUsed: numChunks, TurnsUsed: len(history) - firstTurn}
		}
	}
}

func (b PromptBuilder) render(question string, chunks []*models.Chunk, history []models.Turn) string {
	var sb strings.Builder
	if b.Preamble != "" {
		sb.WriteString(b.Preamble)
		sb.WriteString("\n\n")
	}
	if len(chunks) > 0 {
		sb.WriteString("Context:\n")
		for i, ch := range chunks {
			fmt.Fprintf(&sb, "[%d]", i+1)
			if src := ch.Source(); src != "" {
				fmt.Fprintf(&sb, " (%s)", sourceLabel(ch))
			}
			sb.WriteString(" ")
			sb.WriteString(strings.TrimSpace(ch.Text))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, t := range history {
			fmt.Fprintf(&sb, "Human: %s\nAssistant: %s\n", t.Question, t.Answer)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s\nHelpful Answer:", question)
	return sb.String()
}

func sourceLabel(ch *models.Chunk) string {
	src := ch.Source()
	if i := strings.LastIndexAny(src, `/\`); i >= 0 {
		src = src[i+1:]
	}
	if page := ch.Metadata[models.MetaPage]; page != "" {
		return src + ", page " + page
	}
	if sheet := ch.Metadata[models.MetaSheet]; sheet != "" {
		return src + ", sheet " + sheet
	}
	return src
}
