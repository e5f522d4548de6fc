package embedding

import (
	"context"
	"hash/fnv"

	"github.com/hyperjump/veritas/pkg/utils"
)

// HashModelID identifies vectors produced by HashingEmbedder.
const HashModelID = "hash"

// HashingEmbedder maps text to a bag of hashed terms and bigrams, L2-normalized.
// It needs no model files or network and is the offline fallback for ONNX.
// Texts that share vocabulary get similar vectors.
type HashingEmbedder struct {
	dimensions int
}

// NewHashingEmbedder returns an embedder producing vectors of the given dimensions.
func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashingEmbedder{dimensions: dimensions}
}

// Embed returns the hashed term vector of text. Empty text yields the zero vector.
func (e *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emb := make([]float32, e.dimensions)
	terms := utils.Terms(text)
	for i, term := range terms {
		e.add(emb, term, 1)
		if i > 0 {
			e.add(emb, terms[i-1]+" "+term, 0.5)
		}
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

func (e *HashingEmbedder) add(emb []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dimensions))
	// High bit picks the sign so unrelated collisions tend to cancel.
	if sum>>63 == 1 {
		weight = -weight
	}
	emb[bucket] += weight
}

// EmbedBatch calls Embed for each text.
func (e *HashingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

// Dimensions returns the embedding dimension.
func (e *HashingEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelID returns HashModelID.
func (e *HashingEmbedder) ModelID() string {
	return HashModelID
}

// Close is a no-op for HashingEmbedder.
func (e *HashingEmbedder) Close() error {
	return nil
}
