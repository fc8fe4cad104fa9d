package semantic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/alumnet/internal/config"
)

// sampleText is embedded once during initialization to check the model is usable
const sampleText = "alumni network"

// newGeminiEmbedder is swapped out in tests
var newGeminiEmbedder = func(ctx context.Context, apiKey, model string) (Embedder, error) {
	return NewGemini(ctx, apiKey, model)
}

// New returns the Provider selected by cfg. The "none" provider yields
// Disabled; the others yield an uninitialized *Service.
func New(cfg config.EmbeddingConfig, geminiAPIKey string, logger *zap.Logger) Provider {
	var init Initializer

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaCfg := cfg.Ollama
		init = func(ctx context.Context) (Embedder, error) {
			client := NewOllama(ollamaCfg.Host, ollamaCfg.Model, ollamaCfg.Timeout())
			if err := client.EnsureRunning(ctx); err != nil {
				return nil, err
			}
			return usable(ctx, client, ollamaCfg.Model)
		}
	case config.ProviderGemini:
		model := cfg.Gemini.Model
		init = func(ctx context.Context) (Embedder, error) {
			client, err := newGeminiEmbedder(ctx, geminiAPIKey, model)
			if err != nil {
				return nil, err
			}
			return usable(ctx, client, model)
		}
	default:
		return Disabled{}
	}

	return NewService(cfg.Provider, init, Options{
		Serialize:       cfg.Serialize,
		CacheSize:       cfg.CacheSize,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout(),
	}, logger)
}

// usable returns emb once it has embedded sampleText
func usable(ctx context.Context, emb Embedder, model string) (Embedder, error) {
	if _, err := emb.Embed(ctx, sampleText); err != nil {
		return nil, fmt.Errorf("model %s not usable: %w", model, err)
	}
	return emb, nil
}

// Warm initializes p now when it supports lazy initialization
func Warm(ctx context.Context, p Provider) error {
	if s, ok := p.(*Service); ok {
		return s.Init(ctx)
	}
	return nil
}

// Describe reports the backend name and state of p
func Describe(p Provider) (name string, state State) {
	if s, ok := p.(*Service); ok {
		return s.Name(), s.State()
	}
	return config.ProviderNone, StateUnavailable
}
