// Package embedding provides text embedding providers and caching.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a remote provider answers without vectors.
var ErrEmptyResponse = errors.New("embedding provider returned no vectors")

// Embedder produces vector embeddings for text. Implementations are deterministic
// for a fixed model and always return Dimensions() values per vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelID() string
	Close() error
}

// embedEach calls embed for each text, stopping at the first error or cancellation.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// batches splits texts into consecutive groups of at most size.
func batches(texts []string, size int) [][]string {
	if size <= 0 {
		size = len(texts)
	}
	var out [][]string
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		out = append(out, texts[start:end])
	}
	return out
}
