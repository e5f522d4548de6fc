// Package generator turns a question, retrieved chunks and conversation history into an answer.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/veritas/internal/models"
	"github.com/hyperjump/veritas/pkg/utils"
	"go.uber.org/zap"
)

// ErrMalformedResponse is returned when the model answers with no usable text.
var ErrMalformedResponse = errors.New("language model returned an empty response")

// Generator produces an answer conditioned on retrieved chunks and prior turns.
type Generator interface {
	Generate(ctx context.Context, question string, chunks []*models.Chunk, history []models.Turn) (string, error)
}

// ChatModel is a single-prompt text completion capability.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelID() string
}

// LLMGenerator renders a prompt and sends it to a ChatModel.
type LLMGenerator struct {
	model   ChatModel
	prompts PromptBuilder
	timeout time.Duration
	logger  *zap.Logger
}

// LLMOption configures an LLMGenerator.
type LLMOption func(*LLMGenerator)

// WithTimeout bounds each model call. Zero means no timeout beyond the caller's context.
func WithTimeout(d time.Duration) LLMOption {
	return func(g *LLMGenerator) { g.timeout = d }
}

// WithLogger sets a logger for prompt statistics.
func WithLogger(l *zap.Logger) LLMOption {
	return func(g *LLMGenerator) { g.logger = l }
}

// NewLLMGenerator creates a generator over model.
func NewLLMGenerator(model ChatModel, prompts PromptBuilder, opts ...LLMOption) *LLMGenerator {
	g := &LLMGenerator{model: model, prompts: prompts}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = utils.LoggerOrNop(g.logger)
	return g
}

// Generate builds the prompt and returns the model's trimmed answer.
func (g *LLMGenerator) Generate(ctx context.Context, question string, chunks []*models.Chunk, history []models.Turn) (string, error) {
	prompt := g.prompts.Build(question, chunks, history)
	g.logger.Debug("generator prompt built",
		zap.String("model", g.model.ModelID()),
		zap.Int("prompt_chars", len(prompt.Text)),
		zap.Int("chunks", prompt.ChunksUsed),
		zap.Int("turns", prompt.TurnsUsed),
	)
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	answer, err := g.model.Complete(ctx, prompt.Text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.model.ModelID(), err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%s: %w", g.model.ModelID(), ErrMalformedResponse)
	}
	return answer, nil
}
