// Package rag answers questions against a built vector index with per-session conversation memory.
package rag

import (
	"context"
	"strings"
	"time"

	"github.com/hyperjump/veritas/internal/embedding"
	"github.com/hyperjump/veritas/internal/generator"
	"github.com/hyperjump/veritas/internal/models"
	"github.com/hyperjump/veritas/internal/storage"
	"github.com/hyperjump/veritas/internal/vector"
	"github.com/hyperjump/veritas/pkg/utils"
	"go.uber.org/zap"
)

// DefaultK is the number of chunks retrieved per question.
const DefaultK = 4

// Pipeline holds the process-wide, read-only pieces shared by all sessions:
// the index, the embedder that built it, and the generator.
type Pipeline struct {
	index       vector.Index
	embedder    embedding.Embedder
	generator   generator.Generator
	condenser   *generator.Condenser
	k           int
	fallback    string
	transcripts storage.TranscriptStore
	logger      *zap.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithK sets how many chunks are retrieved per turn.
func WithK(k int) PipelineOption {
	return func(p *Pipeline) { p.k = k }
}

// WithCondenser rewrites follow-up questions into standalone ones before retrieval.
func WithCondenser(c *generator.Condenser) PipelineOption {
	return func(p *Pipeline) { p.condenser = c }
}

// WithFallbackMessage sets the answer shown at the chat boundary when a turn fails.
func WithFallbackMessage(msg string) PipelineOption {
	return func(p *Pipeline) { p.fallback = msg }
}

// WithTranscripts archives every completed turn.
func WithTranscripts(s storage.TranscriptStore) PipelineOption {
	return func(p *Pipeline) { p.transcripts = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a pipeline. The embedder must be the one used to build index.
func NewPipeline(index vector.Index, embedder embedding.Embedder, gen generator.Generator, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		index:       index,
		embedder:    embedder,
		generator:   gen,
		k:           DefaultK,
		fallback:    "Sorry, I could not answer that right now. Please try again.",
		transcripts: storage.NopStore{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.k <= 0 {
		p.k = DefaultK
	}
	p.logger = utils.LoggerOrNop(p.logger)
	return p
}

// Index returns the pipeline's vector index.
func (p *Pipeline) Index() vector.Index {
	return p.index
}

// Embedder returns the embedder used for questions.
func (p *Pipeline) Embedder() embedding.Embedder {
	return p.embedder
}

// K returns the retrieval depth.
func (p *Pipeline) K() int {
	return p.k
}

// answer runs one turn against history. It does not touch memory.
func (p *Pipeline) answer(ctx context.Context, sessionID, question string, history []models.Turn) (*models.Answer, error) {
	start := time.Now()

	searchText := question
	if p.condenser != nil && len(history) > 0 {
		standalone, err := p.condenser.Condense(ctx, question, history)
		if err != nil {
			p.logger.Warn("question condensing failed, retrieving with the original question",
				zap.String("session", sessionID), zap.Error(err))
		} else {
			searchText = standalone
		}
	}

	vec, err := p.embedder.Embed(ctx, searchText)
	if err != nil {
		return nil, &TurnError{Stage: ErrEmbedding, Err: err}
	}
	results, err := p.index.Query(ctx, vec, p.k)
	if err != nil {
		return nil, &TurnError{Stage: ErrRetrieval, Err: err}
	}
	chunks := vector.Chunks(results)

	text, err := p.generator.Generate(ctx, question, chunks, history)
	if err != nil {
		return nil, &TurnError{Stage: ErrGeneration, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TurnError{Stage: ErrGeneration, Err: err}
	}

	p.logger.Debug("turn answered",
		zap.String("session", sessionID),
		zap.Int("chunks", len(chunks)),
		zap.Int("history", len(history)),
		zap.Duration("took", time.Since(start)),
	)
	return &models.Answer{Question: question, Text: text, Sources: chunks}, nil
}

func normalizeQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	return q, nil
}
