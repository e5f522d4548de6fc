package embedding

import (
	"context"
	"testing"

	"github.com/hyperjump/veritas/internal/config"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	t.Run("hash", func(t *testing.T) {
		e, err := New(ctx, &config.EmbeddingConfig{Provider: "hash", Dimensions: 32, CacheSize: 10}, zap.NewNop())
		if err != nil {
			t.Fatal(err)
		}
		defer e.Close()
		if e.Dimensions() != 32 || e.ModelID() != HashModelID {
			t.Errorf("got dims=%d model=%s", e.Dimensions(), e.ModelID())
		}
		if _, ok := e.(*CachedEmbedder); !ok {
			t.Errorf("expected cached embedder, got %T", e)
		}
	})
	t.Run("onnx falls back to hash when model is missing", func(t *testing.T) {
		e, err := New(ctx, &config.EmbeddingConfig{
			Provider:      "onnx",
			ModelPath:     "/nonexistent/model.onnx",
			TokenizerPath: "/nonexistent/tokenizer.json",
			Dimensions:    16,
			MaxTokens:     32,
		}, zap.NewNop())
		if err != nil {
			t.Fatal(err)
		}
		defer e.Close()
		if e.ModelID() != HashModelID {
			t.Errorf("ModelID() = %q, want fallback %q", e.ModelID(), HashModelID)
		}
	})
	t.Run("gemini without key", func(t *testing.T) {
		_, err := New(ctx, &config.EmbeddingConfig{Provider: "gemini", APIKeyEnv: "VERITAS_UNSET_KEY_FOR_TEST"}, nil)
		if err == nil {
			t.Error("expected error without key")
		}
	})
	t.Run("unknown provider", func(t *testing.T) {
		if _, err := New(ctx, &config.EmbeddingConfig{Provider: "parrot"}, nil); err == nil {
			t.Error("expected error")
		}
	})
}
