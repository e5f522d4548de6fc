package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/veritas/internal/embedding"
	"github.com/hyperjump/veritas/internal/models"
)

func TestSession_Submit(t *testing.T) {
	emb := embedding.NewHashingEmbedder(dims)
	idx := buildIndex(t, emb, map[string]string{"policy.txt": "The refund policy allows returns within 30 days."})
	gen := &recordingGenerator{answer: "Within 30 days."}
	p := NewPipeline(idx, emb, gen, WithFallbackMessage("try again"))
	s := p.NewSession("s1")
	ctx := context.Background()

	prior := []models.Turn{{Question: "hello", Answer: "hi"}}
	resp := s.Submit(ctx, models.ChatRequest{Question: "  refund window?  ", History: prior})
	if resp.Input != "" || resp.Error != "" || resp.SessionID != "s1" {
		t.Errorf("resp = %+v", resp)
	}
	want := []models.Turn{prior[0], {Question: "refund window?", Answer: "Within 30 days."}}
	if len(resp.History) != 2 || resp.History[0] != want[0] || resp.History[1] != want[1] {
		t.Errorf("history = %+v", resp.History)
	}
	if len(prior) != 1 {
		t.Error("request history must not be modified")
	}

	t.Run("failure shows fallback", func(t *testing.T) {
		gen.err = errors.New("timeout")
		defer func() { gen.err = nil }()
		resp := s.Submit(ctx, models.ChatRequest{Question: "again?", History: resp.History})
		if resp.Error == "" {
			t.Error("expected error text")
		}
		last := resp.History[len(resp.History)-1]
		if last.Answer != "try again" || last.Question != "again?" {
			t.Errorf("last = %+v", last)
		}
		if s.Turns() != 1 {
			t.Errorf("memory turns = %d, want 1", s.Turns())
		}
	})

	t.Run("empty question", func(t *testing.T) {
		resp := s.Submit(ctx, models.ChatRequest{Question: " ", History: prior})
		if resp.Error == "" || len(resp.History) != 1 || resp.Input != "" {
			t.Errorf("resp = %+v", resp)
		}
	})
}

func TestTurnError(t *testing.T) {
	cause := errors.New("upstream 503")
	err := error(&TurnError{Stage: ErrEmbedding, Err: cause})
	if !errors.Is(err, ErrEmbedding) || !errors.Is(err, cause) {
		t.Error("TurnError should match stage and cause")
	}
	if errors.Is(err, ErrGeneration) {
		t.Error("TurnError matched the wrong stage")
	}
	if err.Error() != "embedding failed: upstream 503" {
		t.Errorf("Error() = %q", err.Error())
	}
}
