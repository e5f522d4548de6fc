package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/veritas/internal/config"
	"github.com/hyperjump/veritas/pkg/utils"
	"go.uber.org/zap"
)

// New builds the generator named by cfg.Provider. The returned ChatModel is nil for the
// extractive provider, which needs no language model.
func New(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (Generator, ChatModel, error) {
	logger = utils.LoggerOrNop(logger)

	var model ChatModel
	switch cfg.Provider {
	case "extractive":
		logger.Info("generator ready", zap.String("provider", cfg.Provider))
		return NewExtractiveGenerator(), nil, nil
	case "gemini":
		m, err := NewGeminiChatModel(ctx, cfg.APIKey(), cfg.BaseURL, cfg.Model, cfg.TemperatureOrDefault())
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set %s)", err, cfg.APIKeyEnv)
		}
		model = m
	case "openai":
		m, err := NewOpenAIChatModel(cfg.APIKey(), cfg.BaseURL, cfg.Model, cfg.TemperatureOrDefault())
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set %s)", err, cfg.APIKeyEnv)
		}
		model = m
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	logger.Info("generator ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", model.ModelID()),
		zap.Float64("temperature", cfg.TemperatureOrDefault()),
	)
	gen := NewLLMGenerator(model,
		PromptBuilder{Preamble: cfg.Preamble, MaxChars: cfg.MaxContextChars},
		WithTimeout(time.Duration(cfg.TimeoutSecs)*time.Second),
		WithLogger(logger),
	)
	return gen, model, nil
}
