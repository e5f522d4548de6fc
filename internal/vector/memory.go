package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperjump/veritas/pkg/utils"
)

// MemoryIndex is an in-memory vector index using brute-force search.
// It is built once from all entries and never mutated, so concurrent queries need no locking.
type MemoryIndex struct {
	metric     Metric
	dimensions int
	entries    []Entry
	norms      []float64
}

// NewMemoryIndex builds an index over entries, in the given order. Vectors are copied.
// All vectors must share one dimensionality; an empty entry list yields an empty index.
func NewMemoryIndex(metric Metric, entries []Entry) (*MemoryIndex, error) {
	metric, err := ParseMetric(string(metric))
	if err != nil {
		return nil, err
	}
	m := &MemoryIndex{
		metric:  metric,
		entries: make([]Entry, len(entries)),
		norms:   make([]float64, len(entries)),
	}
	for i, e := range entries {
		if e.Chunk == nil {
			return nil, fmt.Errorf("entry %d has no chunk", i)
		}
		if len(e.Vector) == 0 {
			return nil, fmt.Errorf("entry %d (%s) has an empty vector", i, e.Chunk.ID)
		}
		if i == 0 {
			m.dimensions = len(e.Vector)
		} else if len(e.Vector) != m.dimensions {
			return nil, fmt.Errorf("entry %d (%s): got %d, expected %d: %w",
				i, e.Chunk.ID, len(e.Vector), m.dimensions, ErrDimensionMismatch)
		}
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		m.entries[i] = Entry{Vector: vec, Chunk: e.Chunk}
		m.norms[i] = utils.L2Norm(vec)
	}
	return m, nil
}

// Query returns up to k entries ranked by similarity, highest first.
// Equal scores keep build order. An empty index returns no results and no error.
func (m *MemoryIndex) Query(ctx context.Context, query []float32, k int) ([]*Result, error) {
	if len(m.entries) == 0 || k <= 0 {
		return []*Result{}, nil
	}
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w", len(query), m.dimensions, ErrDimensionMismatch)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type scored struct {
		pos   int
		score float64
	}
	queryNorm := utils.L2Norm(query)
	scores := make([]scored, len(m.entries))
	for i, e := range m.entries {
		scores[i] = scored{pos: i, score: m.score(query, queryNorm, e.Vector, m.norms[i])}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if k > len(scores) {
		k = len(scores)
	}
	result := make([]*Result, k)
	for i := 0; i < k; i++ {
		result[i] = &Result{
			Chunk: m.entries[scores[i].pos].Chunk,
			Score: scores[i].score,
			Rank:  i + 1,
		}
	}
	return result, nil
}

func (m *MemoryIndex) score(query []float32, queryNorm float64, vec []float32, vecNorm float64) float64 {
	switch m.metric {
	case MetricDot:
		return InnerProduct(query, vec)
	case MetricEuclidean:
		return 1 / (1 + EuclideanDistance(query, vec))
	default:
		if queryNorm == 0 || vecNorm == 0 {
			return 0
		}
		return InnerProduct(query, vec) / (queryNorm * vecNorm)
	}
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	return len(m.entries)
}

// Dimensions returns the vector dimensionality, or 0 for an empty index.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Metric returns the similarity metric.
func (m *MemoryIndex) Metric() Metric {
	return m.metric
}
