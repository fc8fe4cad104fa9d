package config

import "time"

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Recommend RecommendConfig `toml:"recommend"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Log       LogConfig       `toml:"log"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Driver string `toml:"driver"` // sqlite3 or mysql
	Path   string `toml:"path"`   // sqlite3 only
	DSN    string `toml:"dsn"`    // mysql only
}

// RecommendConfig contains recommendation engine settings
type RecommendConfig struct {
	// CandidateBatch caps how many opposite-role users are fetched and scored
	// per people request. Users past the cap are never considered.
	CandidateBatch int           `toml:"candidate_batch"`
	Weights        WeightsConfig `toml:"weights"`
}

// WeightsConfig holds the points each people-scoring rule awards
type WeightsConfig struct {
	Branch int `toml:"branch"`
	Skill  int `toml:"skill"`
	Mutual int `toml:"mutual"` // per mutual connection
	Domain int `toml:"domain"`
	City   int `toml:"city"`
}

// EmbeddingConfig selects and tunes the semantic similarity backend
type EmbeddingConfig struct {
	Provider              string       `toml:"provider"`
	Eager                 bool         `toml:"eager"`
	Serialize             bool         `toml:"serialize"`
	CacheSize             int          `toml:"cache_size"`
	BreakerFailures       uint32       `toml:"breaker_failures"`
	BreakerTimeoutSeconds int          `toml:"breaker_timeout_seconds"`
	Ollama                OllamaConfig `toml:"ollama"`
	Gemini                GeminiConfig `toml:"gemini"`
}

// BreakerTimeout returns how long an open breaker waits before probing again
func (e EmbeddingConfig) BreakerTimeout() time.Duration {
	return time.Duration(e.BreakerTimeoutSeconds) * time.Second
}

// OllamaConfig contains Ollama-specific settings
type OllamaConfig struct {
	Host           string `toml:"host"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request HTTP timeout
func (o OllamaConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// GeminiConfig contains Gemini-specific settings
type GeminiConfig struct {
	Model string `toml:"model"`
	// API key is read from GEMINI_API_KEY environment variable
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after each command.
	Textfile string `toml:"textfile"`
}

// Provider names accepted in embedding.provider
const (
	ProviderNone   = "none"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			Path:   "~/.local/share/alumnet/alumnet.db",
		},
		Recommend: RecommendConfig{
			CandidateBatch: 50,
			Weights: WeightsConfig{
				Branch: 5,
				Skill:  5,
				Mutual: 2,
				Domain: 3,
				City:   2,
			},
		},
		Embedding: EmbeddingConfig{
			Provider:              ProviderNone,
			Eager:                 false,
			Serialize:             false,
			CacheSize:             256,
			BreakerFailures:       5,
			BreakerTimeoutSeconds: 30,
			Ollama: OllamaConfig{
				Host:           "http://localhost:11434",
				Model:          "all-minilm",
				TimeoutSeconds: 30,
			},
			Gemini: GeminiConfig{
				Model: "text-embedding-004",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
