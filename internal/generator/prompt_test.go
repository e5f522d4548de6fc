package generator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hyperjump/veritas/internal/models"
)

func TestPromptBuilder_layout(t *testing.T) {
	b := PromptBuilder{Preamble: "PRE"}
	chunks := []*models.Chunk{
		{Text: "first chunk", Metadata: map[string]string{models.MetaSource: "/docs/a.pdf", models.MetaPage: "2"}},
		{Text: "second chunk", Metadata: map[string]string{models.MetaSource: "/docs/b.txt"}},
	}
	history := []models.Turn{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}
	p := b.Build("final?", chunks, history)

	if p.ChunksUsed != 2 || p.TurnsUsed != 2 {
		t.Errorf("used chunks=%d turns=%d", p.ChunksUsed, p.TurnsUsed)
	}
	order := []string{"PRE", "[1] (a.pdf, page 2) first chunk", "[2] (b.txt) second chunk", "Human: q1", "Human: q2", "Question: final?", "Helpful Answer:"}
	pos := -1
	for _, want := range order {
		i := strings.Index(p.Text, want)
		if i < 0 {
			t.Fatalf("prompt missing %q:\n%s", want, p.Text)
		}
		if i < pos {
			t.Errorf("%q out of order", want)
		}
		pos = i
	}
}

func TestPromptBuilder_noContext(t *testing.T) {
	p := PromptBuilder{}.Build("hello?", nil, nil)
	if p.Text != "Question: hello?\nHelpful Answer:" {
		t.Errorf("got %q", p.Text)
	}
}

func TestPromptBuilder_budget(t *testing.T) {
	chunks := []*models.Chunk{
		{Text: strings.Repeat("a", 40)},
		{Text: strings.Repeat("b", 40)},
	}
	history := []models.Turn{
		{Question: "oldest question", Answer: strings.Repeat("x", 30)},
		{Question: "newest question", Answer: "short"},
	}
	full := PromptBuilder{Preamble: "P"}.Build("q?", chunks, history)
	fullLen := utf8.RuneCountInString(full.Text)

	t.Run("drops oldest turn first", func(t *testing.T) {
		p := PromptBuilder{Preamble: "P", MaxChars: fullLen - 1}.Build("q?", chunks, history)
		if p.TurnsUsed != 1 || p.ChunksUsed != 2 {
			t.Fatalf("turns=%d chunks=%d", p.TurnsUsed, p.ChunksUsed)
		}
		if strings.Contains(p.Text, "oldest question") || !strings.Contains(p.Text, "newest question") {
			t.Errorf("wrong turn dropped:\n%s", p.Text)
		}
	})

	t.Run("then lowest ranked chunk", func(t *testing.T) {
		noTurns := PromptBuilder{Preamble: "P"}.Build("q?", chunks, nil)
		p := PromptBuilder{Preamble: "P", MaxChars: utf8.RuneCountInString(noTurns.Text) - 1}.Build("q?", chunks, history)
		if p.TurnsUsed != 0 || p.ChunksUsed != 1 {
			t.Fatalf("turns=%d chunks=%d", p.TurnsUsed, p.ChunksUsed)
		}
		if strings.Contains(p.Text, "bbbb") || !strings.Contains(p.Text, "aaaa") {
			t.Errorf("wrong chunk dropped:\n%s", p.Text)
		}
	})

	t.Run("question always kept", func(t *testing.T) {
		p := PromptBuilder{Preamble: "P", MaxChars: 1}.Build("q?", chunks, history)
		if p.TurnsUsed != 0 || p.ChunksUsed != 0 {
			t.Fatalf("turns=%d chunks=%d", p.TurnsUsed, p.ChunksUsed)
		}
		if !strings.HasPrefix(p.Text, "P\n\n") || !strings.Contains(p.Text, "Question: q?") {
			t.Errorf("got %q", p.Text)
		}
	})
}
