package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiEmbedder embeds text with a Gemini embedding model.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
	batchSize  int
	timeout    time.Duration
}

// GeminiOptions configures NewGeminiEmbedder.
type GeminiOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	BatchSize  int
	Timeout    time.Duration
}

// NewGeminiEmbedder creates a Gemini API client. The API key is required.
func NewGeminiEmbedder(ctx context.Context, opts GeminiOptions) (*GeminiEmbedder, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini embedder: API key is not set")
	}
	if opts.Model == "" {
		opts.Model = "text-embedding-004"
	}
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions.BaseURL = opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini embedder: create client: %w", err)
	}
	return &GeminiEmbedder{
		client:     client,
		model:      opts.Model,
		dimensions: opts.Dimensions,
		batchSize:  opts.BatchSize,
		timeout:    opts.Timeout,
	}, nil
}

// Embed returns the embedding for a single text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in groups of batchSize, preserving order.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, e.batchSize) {
		vecs, err := e.embedOnce(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *GeminiEmbedder) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}
	var cfg *genai.EmbedContentConfig
	if e.dimensions > 0 {
		cfg = &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(int32(e.dimensions))}
	}
	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d vectors for %d texts: %w", len(resp.Embeddings), len(texts), ErrEmptyResponse)
	}
	vecs := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("gemini embed: vector %d missing: %w", i, ErrEmptyResponse)
		}
		if e.dimensions > 0 && len(emb.Values) != e.dimensions {
			return nil, fmt.Errorf("gemini embed: got %d dimensions, want %d", len(emb.Values), e.dimensions)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}

// Dimensions returns the configured embedding dimension.
func (e *GeminiEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelID returns the Gemini model name.
func (e *GeminiEmbedder) ModelID() string {
	return "gemini:" + e.model
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (e *GeminiEmbedder) Close() error {
	return nil
}
