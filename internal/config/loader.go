package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// GeminiAPIKeyEnv names the environment variable holding the Gemini API key
const GeminiAPIKeyEnv = "GEMINI_API_KEY"

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'alumnet config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Secrets live in .env files next to the config or in the working directory
	if err := loadEnvFiles(filepath.Join(filepath.Dir(expandedPath), ".env"), ".env"); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	// Parse TOML
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadEnvFiles loads each existing file; variables already set win
func loadEnvFiles(paths ...string) error {
	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if _, err := os.Stat(abs); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := godotenv.Load(abs); err != nil {
			return err
		}
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Database validation
	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite3"))
		}
	case "mysql":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be 'sqlite3' or 'mysql', got '%s'", c.Database.Driver))
	}

	// Recommend validation
	if c.Recommend.CandidateBatch < 1 || c.Recommend.CandidateBatch > 500 {
		errs = append(errs, errors.New("recommend.candidate_batch must be between 1 and 500"))
	}
	w := c.Recommend.Weights
	if w.Branch < 0 || w.Skill < 0 || w.Mutual < 0 || w.Domain < 0 || w.City < 0 {
		errs = append(errs, errors.New("recommend.weights must not be negative"))
	}

	// Embedding validation
	validProviders := map[string]bool{ProviderNone: true, ProviderOllama: true, ProviderGemini: true}
	if !validProviders[c.Embedding.Provider] {
		errs = append(errs, fmt.Errorf("embedding.provider must be 'none', 'ollama' or 'gemini', got '%s'", c.Embedding.Provider))
	}
	if c.Embedding.CacheSize < 0 {
		errs = append(errs, errors.New("embedding.cache_size must not be negative"))
	}
	if c.Embedding.BreakerFailures < 1 {
		errs = append(errs, errors.New("embedding.breaker_failures must be at least 1"))
	}
	if c.Embedding.BreakerTimeoutSeconds < 1 {
		errs = append(errs, errors.New("embedding.breaker_timeout_seconds must be at least 1"))
	}
	if c.Embedding.Provider == ProviderOllama {
		if c.Embedding.Ollama.Host == "" || c.Embedding.Ollama.Model == "" {
			errs = append(errs, errors.New("embedding.ollama.host and embedding.ollama.model are required"))
		}
		if c.Embedding.Ollama.TimeoutSeconds < 1 {
			errs = append(errs, errors.New("embedding.ollama.timeout_seconds must be at least 1"))
		}
	}
	if c.Embedding.Provider == ProviderGemini && c.Embedding.Gemini.Model == "" {
		errs = append(errs, errors.New("embedding.gemini.model is required"))
	}

	// Log validation
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", c.Log.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// GeminiAPIKey returns the Gemini API key from the environment
func (c *Config) GeminiAPIKey() string {
	return strings.TrimSpace(os.Getenv(GeminiAPIKeyEnv))
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	if c.Database.Driver != "sqlite3" {
		return nil
	}

	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return nil
}
