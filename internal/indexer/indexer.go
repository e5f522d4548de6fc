// Package indexer runs the build phase: load the corpus, chunk it, embed the chunks, build the index.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/veritas/internal/embedding"
	"github.com/hyperjump/veritas/internal/loader"
	"github.com/hyperjump/veritas/internal/models"
	"github.com/hyperjump/veritas/internal/vector"
	"go.uber.org/zap"
)

const defaultBatchSize = 64

// Result is the output of a build.
type Result struct {
	Index     *vector.MemoryIndex
	Documents []*models.Document
	Chunks    []*models.Chunk
	Failures  []*loader.LoadError
	Skipped   int
	Duration  time.Duration
}

// Indexer builds a vector index from a corpus folder.
type Indexer struct {
	loader    *loader.Loader
	chunker   *Chunker
	embedder  embedding.Embedder
	metric    vector.Metric
	normalize bool
	batchSize int
	logger    *zap.Logger // optional; when set, logs build progress
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithMetric sets the similarity metric of the built index (default cosine).
func WithMetric(m vector.Metric) IndexerOption {
	return func(idx *Indexer) { idx.metric = m }
}

// WithNormalizeWhitespace collapses whitespace in document text before chunking.
func WithNormalizeWhitespace(on bool) IndexerOption {
	return func(idx *Indexer) { idx.normalize = on }
}

// WithBatchSize sets how many chunks are sent to the embedder per call.
func WithBatchSize(n int) IndexerOption {
	return func(idx *Indexer) {
		if n > 0 {
			idx.batchSize = n
		}
	}
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(ld *loader.Loader, chunker *Chunker, embedder embedding.Embedder, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		loader:    ld,
		chunker:   chunker,
		embedder:  embedder,
		metric:    vector.MetricCosine,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build loads folder and returns the built index. Per-file load failures are reported in
// Result.Failures; embedding or index errors abort the build.
func (idx *Indexer) Build(ctx context.Context, folder string) (*Result, error) {
	start := time.Now()
	loaded, err := idx.loader.Load(folder)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	docs := loaded.Documents
	if idx.normalize {
		docs = PreprocessAll(docs)
	}
	chunks := idx.chunker.ChunkAll(docs)
	if idx.logger != nil {
		idx.logger.Debug("indexer corpus chunked",
			zap.Int("documents", len(docs)),
			zap.Int("chunks", len(chunks)),
		)
	}

	vectors, err := idx.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	entries := make([]vector.Entry, len(chunks))
	for i, ch := range chunks {
		entries[i] = vector.Entry{Vector: vectors[i], Chunk: ch}
	}
	index, err := vector.NewMemoryIndex(idx.metric, entries)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if index.Size() > 0 && idx.embedder.Dimensions() > 0 && index.Dimensions() != idx.embedder.Dimensions() {
		return nil, fmt.Errorf("build index: embedder reports %d dimensions, vectors have %d: %w",
			idx.embedder.Dimensions(), index.Dimensions(), vector.ErrDimensionMismatch)
	}

	res := &Result{
		Index:     index,
		Documents: docs,
		Chunks:    chunks,
		Failures:  loaded.Failures,
		Skipped:   loaded.Skipped,
		Duration:  time.Since(start),
	}
	if idx.logger != nil {
		idx.logger.Info("index built",
			zap.String("folder", folder),
			zap.Int("documents", len(res.Documents)),
			zap.Int("chunks", len(res.Chunks)),
			zap.Int("failed_files", len(res.Failures)),
			zap.Duration("duration", res.Duration),
		)
	}
	return res, nil
}

func (idx *Indexer) embedChunks(ctx context.Context, chunks []*models.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += idx.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + idx.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, end-start)
		for i, ch := range chunks[start:end] {
			texts[i] = ch.Text
		}
		vecs, err := idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
		}
		vectors = append(vectors, vecs...)
		if idx.logger != nil {
			idx.logger.Debug("indexer embedded batch", zap.Int("done", end), zap.Int("total", len(chunks)))
		}
	}
	return vectors, nil
}
