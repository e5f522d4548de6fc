package config

// Defaults for the pipeline knobs.
const (
	DefaultFolderPath      = "./docs"
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 0
	DefaultRetrievalK      = 4
	DefaultMetric          = "cosine"
	DefaultTemperature     = 0.5
	DefaultEmbeddingModel  = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultLLMModel        = "gemini-1.5-flash"
	DefaultFallbackMessage = "Sorry, I could not answer that right now. Please try again."
	DefaultPreamble        = "Use the following pieces of context to answer the question at the end. " +
		"If you don't know the answer, just say that you don't know, don't try to make up an answer."
)

// ApplyDefaults sets default values for any zero values in cfg.
// ChunkOverlap is left alone: zero is the default.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7860
	}
	if cfg.Server.RequestTimeoutSecs == 0 {
		cfg.Server.RequestTimeoutSecs = 120
	}
	if cfg.Server.SessionIdleMinutes == 0 {
		cfg.Server.SessionIdleMinutes = 30
	}
	if cfg.Server.MaxSessions == 0 {
		cfg.Server.MaxSessions = 1000
	}
	if cfg.Corpus.FolderPath == "" {
		cfg.Corpus.FolderPath = DefaultFolderPath
	}
	if cfg.Corpus.Extensions == nil {
		cfg.Corpus.Extensions = []string{".txt", ".pdf"}
	}
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = DefaultChunkSize
	}
	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = DefaultRetrievalK
	}
	if cfg.Retrieval.Metric == "" {
		cfg.Retrieval.Metric = DefaultMetric
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.Model == "" {
		switch cfg.Embedding.Provider {
		case "gemini":
			cfg.Embedding.Model = "text-embedding-004"
		case "openai":
			cfg.Embedding.Model = "text-embedding-3-small"
		case "hash":
			cfg.Embedding.Model = "hash"
		default:
			cfg.Embedding.Model = DefaultEmbeddingModel
		}
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "./models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.TokenizerPath == "" {
		cfg.Embedding.TokenizerPath = "./models/tokenizer.json"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 30
	}
	if cfg.Embedding.APIKeyEnv == "" {
		switch cfg.Embedding.Provider {
		case "gemini":
			cfg.Embedding.APIKeyEnv = "GOOGLE_API_KEY"
		case "openai":
			cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.Model = "gpt-4o-mini"
		default:
			cfg.LLM.Model = DefaultLLMModel
		}
	}
	if cfg.LLM.Temperature == nil {
		t := DefaultTemperature
		cfg.LLM.Temperature = &t
	}
	if cfg.LLM.APIKeyEnv == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.APIKeyEnv = "GOOGLE_API_KEY"
		case "openai":
			cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.LLM.Preamble == "" {
		cfg.LLM.Preamble = DefaultPreamble
	}
	if cfg.LLM.FallbackMessage == "" {
		cfg.LLM.FallbackMessage = DefaultFallbackMessage
	}
}
