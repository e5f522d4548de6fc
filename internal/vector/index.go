// Package vector provides the build-once, in-memory nearest-neighbour index over chunk embeddings.
package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/veritas/internal/models"
)

// ErrDimensionMismatch is returned when vectors disagree on dimensionality.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Metric names a similarity function. Higher scores are always more similar.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricDot       Metric = "dot"
	MetricEuclidean Metric = "euclidean"
)

// ParseMetric validates s. Empty means cosine.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricCosine:
		return MetricCosine, nil
	case MetricDot, MetricEuclidean:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Entry pairs a chunk with its embedding.
type Entry struct {
	Vector []float32
	Chunk  *models.Chunk
}

// Result is one retrieval hit. Rank is 1-based.
type Result struct {
	Chunk *models.Chunk `json:"chunk"`
	Score float64       `json:"score"`
	Rank  int           `json:"rank"`
}

// Index answers top-k similarity queries. Implementations are immutable after
// construction and safe for concurrent queries.
type Index interface {
	Query(ctx context.Context, vector []float32, k int) ([]*Result, error)
	Size() int
	Dimensions() int
	Metric() Metric
}

// Chunks returns the chunks of results in rank order.
func Chunks(results []*Result) []*models.Chunk {
	out := make([]*models.Chunk, len(results))
	for i, r := range results {
		out[i] = r.Chunk
	}
	return out
}
