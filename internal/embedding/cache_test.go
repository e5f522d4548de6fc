package embedding

import (
	"context"
	"errors"
	"testing"
)

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []float32{1, 2, 3})
	v, ok := c.Get("a")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []float32{4, 5})
	c.Set("c", []float32{6}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestEmbeddingCache_GetRefreshesRecency(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a")
	c.Set("c", []float32{3}) // evicts b, a was touched
	if _, ok := c.Get("a"); !ok {
		t.Error("recently read entry should survive")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
}

type countingEmbedder struct {
	*HashingEmbedder
	calls int
	texts int
	err   error
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	c.texts += len(texts)
	if c.err != nil {
		return nil, c.err
	}
	return c.HashingEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedder_EmbedBatchOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{HashingEmbedder: NewHashingEmbedder(16)}
	e := NewCachedEmbedder(inner, 10)
	ctx := context.Background()

	first, err := e.EmbedBatch(ctx, []string{"alpha", "beta"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.EmbedBatch(ctx, []string{"beta", "gamma", "alpha"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.texts != 3 {
		t.Errorf("inner embedded %d texts, want 3", inner.texts)
	}
	if second[0][0] != first[1][0] || second[2][0] != first[0][0] {
		t.Error("cached vectors should be returned in request order")
	}

	if _, err := e.EmbedBatch(ctx, []string{"alpha", "beta"}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("fully cached batch should not call inner; calls=%d", inner.calls)
	}
}

func TestCachedEmbedder_propagatesError(t *testing.T) {
	boom := errors.New("boom")
	e := NewCachedEmbedder(&countingEmbedder{HashingEmbedder: NewHashingEmbedder(8), err: boom}, 4)
	if _, err := e.EmbedBatch(context.Background(), []string{"x"}); !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
}

func TestNewCachedEmbedder_zeroCapacity(t *testing.T) {
	inner := NewHashingEmbedder(8)
	if NewCachedEmbedder(inner, 0) != Embedder(inner) {
		t.Error("capacity 0 should return the inner embedder")
	}
}
