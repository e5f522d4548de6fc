package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/veritas/internal/config"
	"github.com/hyperjump/veritas/pkg/utils"
	"go.uber.org/zap"
)

// New builds the embedder named by cfg.Provider and wraps it in an LRU cache.
// When the ONNX model cannot be loaded, New logs a warning and uses the hashing embedder.
func New(ctx context.Context, cfg *config.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	logger = utils.LoggerOrNop(logger)
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	var inner Embedder
	switch cfg.Provider {
	case "hash":
		inner = NewHashingEmbedder(cfg.Dimensions)
	case "onnx":
		onnx, err := NewONNXEmbedder(cfg.ModelPath, cfg.TokenizerPath, cfg.Model, cfg.Dimensions, cfg.MaxTokens)
		if err != nil {
			logger.Warn("ONNX embedder unavailable, using hashing embedder",
				zap.String("model_path", cfg.ModelPath),
				zap.String("tokenizer_path", cfg.TokenizerPath),
				zap.Error(err))
			inner = NewHashingEmbedder(cfg.Dimensions)
		} else {
			inner = onnx
		}
	case "gemini":
		g, err := NewGeminiEmbedder(ctx, GeminiOptions{
			APIKey:     cfg.APIKey(),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			Timeout:    timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, cfg.APIKeyEnv)
		}
		inner = g
	case "openai":
		o, err := NewOpenAIEmbedder(OpenAIOptions{
			APIKey:     cfg.APIKey(),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			Timeout:    timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set %s)", err, cfg.APIKeyEnv)
		}
		inner = o
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	logger.Info("embedder ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", inner.ModelID()),
		zap.Int("dimensions", inner.Dimensions()),
	)
	return NewCachedEmbedder(inner, cfg.CacheSize), nil
}
