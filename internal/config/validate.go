package config

import (
	"fmt"
	"strings"
)

var (
	embeddingProviders = map[string]bool{"onnx": true, "hash": true, "gemini": true, "openai": true}
	llmProviders       = map[string]bool{"gemini": true, "openai": true, "extractive": true}
	metrics            = map[string]bool{"cosine": true, "dot": true, "euclidean": true}
	corpusExtensions   = map[string]bool{".txt": true, ".pdf": true, ".md": true, ".xlsx": true}
)

// Validate reports the first invalid setting in cfg.
func (cfg *Config) Validate() error {
	if cfg.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap < 0 || cfg.Chunking.ChunkOverlap >= cfg.Chunking.ChunkSize {
		return fmt.Errorf("chunking.chunk_overlap must be in [0, %d), got %d",
			cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	}
	if cfg.Retrieval.K < 1 {
		return fmt.Errorf("retrieval.k must be at least 1, got %d", cfg.Retrieval.K)
	}
	if !metrics[cfg.Retrieval.Metric] {
		return fmt.Errorf("unknown retrieval.metric %q", cfg.Retrieval.Metric)
	}
	if t := cfg.LLM.TemperatureOrDefault(); t < 0 || t > 1 {
		return fmt.Errorf("llm.temperature must be in [0, 1], got %g", t)
	}
	if !embeddingProviders[cfg.Embedding.Provider] {
		return fmt.Errorf("unknown embedding.provider %q", cfg.Embedding.Provider)
	}
	if !llmProviders[cfg.LLM.Provider] {
		return fmt.Errorf("unknown llm.provider %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxContextChars < 0 {
		return fmt.Errorf("llm.max_context_chars must not be negative, got %d", cfg.LLM.MaxContextChars)
	}
	for _, ext := range cfg.Corpus.Extensions {
		if !corpusExtensions[strings.ToLower(ext)] {
			return fmt.Errorf("unsupported corpus extension %q", ext)
		}
	}
	return nil
}
