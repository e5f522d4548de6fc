package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/veritas/internal/models"
)

// Condenser rewrites a follow-up question into a standalone question using the conversation so far.
type Condenser struct {
	model   ChatModel
	timeout time.Duration
}

// NewCondenser creates a condenser. timeout bounds each call; zero means none.
func NewCondenser(model ChatModel, timeout time.Duration) *Condenser {
	return &Condenser{model: model, timeout: timeout}
}

// Condense returns question unchanged when history is empty.
func (c *Condenser) Condense(ctx context.Context, question string, history []models.Turn) (string, error) {
	if len(history) == 0 {
		return question, nil
	}
	var sb strings.Builder
	sb.WriteString("Given the following conversation and a follow up question, rephrase the follow up question ")
	sb.WriteString("to be a standalone question, in its original language.\n\nChat History:\n")
	for _, t := range history {
		fmt.Fprintf(&sb, "Human: %s\nAssistant: %s\n", t.Question, t.Answer)
	}
	fmt.Fprintf(&sb, "Follow Up Input: %s\nStandalone question:", question)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	out, err := c.model.Complete(ctx, sb.String())
	if err != nil {
		return "", fmt.Errorf("condense question: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("condense question: %w", ErrMalformedResponse)
	}
	return out, nil
}
