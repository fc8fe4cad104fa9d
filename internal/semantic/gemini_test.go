package semantic

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/vijay-prabhu/alumnet/internal/config"
)

type fakeModels struct {
	resp      *genai.EmbedContentResponse
	err       error
	lastModel string
	lastText  string
}

func (f *fakeModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.lastModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastText = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func TestGeminiEmbed(t *testing.T) {
	models := &fakeModels{resp: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2, 0.3}}},
	}}
	g := newGemini(models, "")

	vec, err := g.Embed(context.Background(), "data engineer")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3 values, got %d", len(vec))
	}
	if models.lastModel != defaultGeminiModel {
		t.Errorf("expected default model %s, got %s", defaultGeminiModel, models.lastModel)
	}
	if models.lastText != "data engineer" {
		t.Errorf("expected text to be sent, got %q", models.lastText)
	}
}

func TestGeminiEmbedErrors(t *testing.T) {
	tests := []struct {
		name   string
		models *fakeModels
	}{
		{"api error", &fakeModels{err: errors.New("quota exceeded")}},
		{"nil response", &fakeModels{}},
		{"no embeddings", &fakeModels{resp: &genai.EmbedContentResponse{}}},
		{"empty values", &fakeModels{resp: &genai.EmbedContentResponse{
			Embeddings: []*genai.ContentEmbedding{{}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(tt.models, "text-embedding-004")
			if _, err := g.Embed(context.Background(), "text"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func stubGemini(t *testing.T, models *fakeModels) {
	t.Helper()
	old := newGeminiEmbedder
	t.Cleanup(func() { newGeminiEmbedder = old })
	newGeminiEmbedder = func(ctx context.Context, apiKey, model string) (Embedder, error) {
		return newGemini(models, model), nil
	}
}

func TestGeminiProviderRejectedKey(t *testing.T) {
	stubGemini(t, &fakeModels{err: errors.New("API key not valid")})

	cfg := config.Default().Embedding
	cfg.Provider = config.ProviderGemini
	p := New(cfg, "bad-key", zap.NewNop())

	if err := Warm(context.Background(), p); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Warm() = %v, want ErrUnavailable", err)
	}
	if _, state := Describe(p); state != StateUnavailable {
		t.Errorf("expected unavailable, got %s", state)
	}
}

func TestGeminiProviderReady(t *testing.T) {
	models := &fakeModels{resp: &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2, 0.3}}},
	}}
	stubGemini(t, models)
	core, logs := observer.New(zapcore.InfoLevel)

	cfg := config.Default().Embedding
	cfg.Provider = config.ProviderGemini
	p := New(cfg, "key", zap.New(core))

	if err := Warm(context.Background(), p); err != nil {
		t.Fatalf("Warm failed: %v", err)
	}
	if models.lastText != sampleText {
		t.Errorf("expected %q to be embedded during init, got %q", sampleText, models.lastText)
	}

	ready := logs.FilterMessage("semantic similarity ready").All()
	if len(ready) != 1 {
		t.Fatalf("expected one ready log, got %d", len(ready))
	}
	if got := ready[0].ContextMap()["model"]; got != cfg.Gemini.Model {
		t.Errorf("ready log model = %v, want %s", got, cfg.Gemini.Model)
	}
}
