// Package config provides configuration loading and structs for the Veritas server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	RequestTimeoutSecs int    `yaml:"request_timeout_secs"`
	// Negative values disable idle expiry and the session cap.
	SessionIdleMinutes int `yaml:"session_idle_minutes"`
	MaxSessions        int `yaml:"max_sessions"`
}

// CorpusConfig describes the document folder loaded at startup.
type CorpusConfig struct {
	FolderPath          string   `yaml:"folder_path"`
	Extensions          []string `yaml:"extensions"`
	Recursive           *bool    `yaml:"recursive"`
	NormalizeWhitespace bool     `yaml:"normalize_whitespace"`
}

// RecursiveOrDefault returns whether to descend into subfolders; defaults to false when unset.
func (c *CorpusConfig) RecursiveOrDefault() bool {
	if c.Recursive != nil {
		return *c.Recursive
	}
	return false
}

// ChunkingConfig holds character window settings.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	K                int    `yaml:"k"`
	Metric           string `yaml:"metric"`
	CondenseQuestion bool   `yaml:"condense_question"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	ModelPath     string `yaml:"model_path"`
	TokenizerPath string `yaml:"tokenizer_path"`
	Dimensions    int    `yaml:"dimensions"`
	MaxTokens     int    `yaml:"max_tokens"`
	CacheSize     int    `yaml:"cache_size"`
	BatchSize     int    `yaml:"batch_size"`
	APIKeyEnv     string `yaml:"api_key_env"`
	BaseURL       string `yaml:"base_url"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
}

// APIKey returns the credential named by APIKeyEnv from the process environment.
func (e *EmbeddingConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// LLMConfig holds answer model settings.
type LLMConfig struct {
	Provider        string   `yaml:"provider"`
	Model           string   `yaml:"model"`
	Temperature     *float64 `yaml:"temperature"`
	APIKeyEnv       string   `yaml:"api_key_env"`
	BaseURL         string   `yaml:"base_url"`
	TimeoutSecs     int      `yaml:"timeout_secs"`
	MaxContextChars int      `yaml:"max_context_chars"`
	Preamble        string   `yaml:"preamble"`
	FallbackMessage string   `yaml:"fallback_message"`
}

// TemperatureOrDefault returns the sampling temperature; defaults to 0.5 when unset.
func (l *LLMConfig) TemperatureOrDefault() float64 {
	if l.Temperature != nil {
		return *l.Temperature
	}
	return DefaultTemperature
}

// APIKey returns the credential named by APIKeyEnv from the process environment.
func (l *LLMConfig) APIKey() string {
	if l.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(l.APIKeyEnv)
}

// StorageConfig holds optional on-disk paths.
type StorageConfig struct {
	TranscriptPath string `yaml:"transcript_path"`
}

// Load reads and parses the config file at path, expands paths, applies defaults and validates.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Corpus.FolderPath = expandPath(cfg.Corpus.FolderPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Embedding.TokenizerPath = expandPath(cfg.Embedding.TokenizerPath, configDir)
	cfg.Storage.TranscriptPath = expandPath(cfg.Storage.TranscriptPath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// LoadOrDefault loads path, or returns Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the config to path. Used by "veritas init".
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath resolves relative paths against configDir and "~/" against the home directory.
// Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	return filepath.Join(configDir, path)
}
