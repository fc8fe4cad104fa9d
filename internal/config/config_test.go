package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("expected Driver=sqlite3, got %s", cfg.Database.Driver)
	}

	if cfg.Recommend.CandidateBatch != 50 {
		t.Errorf("expected CandidateBatch=50, got %d", cfg.Recommend.CandidateBatch)
	}

	if cfg.Embedding.Provider != ProviderNone {
		t.Errorf("expected Provider=none, got %s", cfg.Embedding.Provider)
	}

	if cfg.Embedding.Ollama.Host != "http://localhost:11434" {
		t.Errorf("expected Ollama host=http://localhost:11434, got %s", cfg.Embedding.Ollama.Host)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "negative weight",
			modify: func(c *Config) {
				c.Recommend.Weights.City = -1
			},
			wantErr: true,
		},
		{
			name: "zero weight disables a rule",
			modify: func(c *Config) {
				c.Recommend.Weights.Mutual = 0
			},
			wantErr: false,
		},
		{
			name: "unknown driver",
			modify: func(c *Config) {
				c.Database.Driver = "postgres"
			},
			wantErr: true,
		},
		{
			name: "mysql without dsn",
			modify: func(c *Config) {
				c.Database.Driver = "mysql"
			},
			wantErr: true,
		},
		{
			name: "mysql with dsn",
			modify: func(c *Config) {
				c.Database.Driver = "mysql"
				c.Database.DSN = "user:pass@tcp(localhost:3306)/alumni?parseTime=true"
			},
			wantErr: false,
		},
		{
			name: "candidate batch too small",
			modify: func(c *Config) {
				c.Recommend.CandidateBatch = 0
			},
			wantErr: true,
		},
		{
			name: "invalid embedding provider",
			modify: func(c *Config) {
				c.Embedding.Provider = "openai"
			},
			wantErr: true,
		},
		{
			name: "ollama without model",
			modify: func(c *Config) {
				c.Embedding.Provider = ProviderOllama
				c.Embedding.Ollama.Model = ""
			},
			wantErr: true,
		},
		{
			name: "gemini provider",
			modify: func(c *Config) {
				c.Embedding.Provider = ProviderGemini
			},
			wantErr: false,
		},
		{
			name: "zero breaker failures",
			modify: func(c *Config) {
				c.Embedding.BreakerFailures = 0
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "trace"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	data := `
[database]
path = "` + filepath.Join(dir, "alumnet.db") + `"

[recommend]
candidate_batch = 20

[recommend.weights]
branch = 8

[embedding]
provider = "ollama"

[embedding.ollama]
model = "nomic-embed-text"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Recommend.CandidateBatch != 20 {
		t.Errorf("expected CandidateBatch=20, got %d", cfg.Recommend.CandidateBatch)
	}
	if cfg.Recommend.Weights.Branch != 8 {
		t.Errorf("expected branch weight 8, got %d", cfg.Recommend.Weights.Branch)
	}
	if cfg.Recommend.Weights.Skill != 5 {
		t.Errorf("expected default skill weight 5, got %d", cfg.Recommend.Weights.Skill)
	}
	if cfg.Embedding.Ollama.Model != "nomic-embed-text" {
		t.Errorf("expected model=nomic-embed-text, got %s", cfg.Embedding.Ollama.Model)
	}
	// Unset keys keep their defaults
	if cfg.Embedding.Ollama.Host != "http://localhost:11434" {
		t.Errorf("expected default host, got %s", cfg.Embedding.Ollama.Host)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[embedding]\nprovider = \"gemini\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(GeminiAPIKeyEnv+"=from-dotenv\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv(GeminiAPIKeyEnv, "")
	os.Unsetenv(GeminiAPIKeyEnv)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.GeminiAPIKey(); got != "from-dotenv" {
		t.Errorf("GeminiAPIKey() = %q, want %q", got, "from-dotenv")
	}
}

func TestBreakerTimeout(t *testing.T) {
	cfg := Default()

	if got := cfg.Embedding.BreakerTimeout().Seconds(); int(got) != 30 {
		t.Errorf("BreakerTimeout() = %v seconds, want 30", got)
	}
}
