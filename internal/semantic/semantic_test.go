package semantic

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vijay-prabhu/alumnet/internal/config"
)

// fakeEmbedder maps texts onto fixed vectors
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return v, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newFake() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"go developer":     {1, 0, 0},
		"golang engineer":  {1, 0, 0},
		"backend services": {0.8, 0.6, 0},
		"watercolour art":  {0, 1, 0},
		"opposite":         {-1, 0, 0},
	}}
}

func staticInit(e Embedder) Initializer {
	return func(context.Context) (Embedder, error) { return e, nil }
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		cosine float64
		want   int
	}{
		{1, 10},
		{0.8, 8},
		{0.84, 8},
		{0.86, 9},
		{0.25, 2}, // half rounds to even
		{0.75, 8},
		{0, 0},
		{-0.7, 0},
		{1.2, 10},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := Scale(tt.cosine); got != tt.want {
			t.Errorf("Scale(%v) = %d, want %d", tt.cosine, got, tt.want)
		}
	}
}

func TestDisabled(t *testing.T) {
	var p Provider = Disabled{}
	if got := p.Similarity(context.Background(), "go developer", "go developer"); got != 0 {
		t.Errorf("Disabled.Similarity() = %d, want 0", got)
	}
}

func TestServiceSimilarity(t *testing.T) {
	s := NewService("fake", staticInit(newFake()), Options{}, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name   string
		t1, t2 string
		want   int
	}{
		{"same direction", "go developer", "golang engineer", 10},
		{"partial overlap", "go developer", "backend services", 8},
		{"unrelated", "go developer", "watercolour art", 0},
		{"negative clamps to zero", "go developer", "opposite", 0},
		{"blank first", "   ", "go developer", 0},
		{"blank second", "go developer", "", 0},
		{"embed failure", "go developer", "not in the fake", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Similarity(ctx, tt.t1, tt.t2); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %d, want %d", tt.t1, tt.t2, got, tt.want)
			}
		})
	}

	if s.State() != StateReady {
		t.Errorf("expected state ready, got %s", s.State())
	}
}

func TestServiceLazyInitOnce(t *testing.T) {
	var inits atomic.Int32
	init := func(context.Context) (Embedder, error) {
		inits.Add(1)
		return newFake(), nil
	}

	s := NewService("fake", init, Options{}, zap.NewNop())
	if s.State() != StateUninitialized {
		t.Fatalf("expected uninitialized before first use, got %s", s.State())
	}

	// Blank input does not trigger initialization
	s.Similarity(context.Background(), "", "go developer")
	if inits.Load() != 0 {
		t.Fatalf("expected no init for blank input, got %d", inits.Load())
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Similarity(context.Background(), "go developer", "golang engineer")
		}()
	}
	wg.Wait()

	if inits.Load() != 1 {
		t.Errorf("expected exactly one init, got %d", inits.Load())
	}
}

func TestServiceInitFailureIsPermanent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	var inits atomic.Int32
	init := func(context.Context) (Embedder, error) {
		inits.Add(1)
		return nil, errors.New("model missing")
	}

	s := NewService("fake", init, Options{}, zap.New(core))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := s.Similarity(ctx, "go developer", "golang engineer"); got != 0 {
			t.Errorf("Similarity() = %d, want 0 when unavailable", got)
		}
	}

	if err := s.Init(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Init() = %v, want ErrUnavailable", err)
	}
	if inits.Load() != 1 {
		t.Errorf("expected a single init attempt, got %d", inits.Load())
	}
	if s.State() != StateUnavailable {
		t.Errorf("expected state unavailable, got %s", s.State())
	}

	warnings := logs.FilterMessage("semantic similarity disabled").Len()
	if warnings != 1 {
		t.Errorf("expected one warning, got %d", warnings)
	}
}

func TestServiceNilInitializer(t *testing.T) {
	s := NewService("none", nil, Options{}, nil)
	if got := s.Similarity(context.Background(), "a", "b"); got != 0 {
		t.Errorf("Similarity() = %d, want 0", got)
	}
	if s.State() != StateUnavailable {
		t.Errorf("expected state unavailable, got %s", s.State())
	}
}

func TestServiceInitIgnoresCallerCancel(t *testing.T) {
	init := func(ctx context.Context) (Embedder, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return newFake(), nil
	}

	s := NewService("fake", init, Options{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() with cancelled caller = %v, want nil", err)
	}
}

func TestServiceCache(t *testing.T) {
	fake := newFake()
	s := NewService("fake", staticInit(fake), Options{CacheSize: 8}, zap.NewNop())
	ctx := context.Background()

	s.Similarity(ctx, "go developer", "golang engineer")
	s.Similarity(ctx, "go developer", "backend services")

	// "go developer" is embedded once
	if got := fake.callCount(); got != 3 {
		t.Errorf("expected 3 embed calls with cache, got %d", got)
	}

	uncached := newFake()
	s2 := NewService("fake", staticInit(uncached), Options{}, zap.NewNop())
	s2.Similarity(ctx, "go developer", "golang engineer")
	s2.Similarity(ctx, "go developer", "backend services")
	if got := uncached.callCount(); got != 4 {
		t.Errorf("expected 4 embed calls without cache, got %d", got)
	}
}

func TestServiceCacheBounded(t *testing.T) {
	fake := newFake()
	s := NewService("fake", staticInit(fake), Options{CacheSize: 2}, zap.NewNop())
	ctx := context.Background()

	s.Similarity(ctx, "go developer", "golang engineer")
	s.Similarity(ctx, "backend services", "watercolour art")

	s.cacheMu.Lock()
	size := len(s.cache)
	s.cacheMu.Unlock()
	if size > 2 {
		t.Errorf("expected cache size <= 2, got %d", size)
	}
}

func TestServiceBreakerOpens(t *testing.T) {
	fake := newFake()
	fake.err = errors.New("backend down")

	s := NewService("fake", staticInit(fake), Options{BreakerFailures: 2, BreakerTimeout: time.Hour}, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if got := s.Similarity(ctx, "go developer", "golang engineer"); got != 0 {
			t.Errorf("Similarity() = %d, want 0 while failing", got)
		}
	}

	// Two failures trip the breaker; later calls never reach the backend
	if got := fake.callCount(); got != 2 {
		t.Errorf("expected 2 backend calls before the breaker opened, got %d", got)
	}
	// The service itself is still ready; only calls are short-circuited
	if s.State() != StateReady {
		t.Errorf("expected state ready, got %s", s.State())
	}
}

func TestServiceLogsFailedText(t *testing.T) {
	fake := newFake()
	fake.err = errors.New("backend down")
	core, logs := observer.New(zapcore.DebugLevel)

	s := NewService("fake", staticInit(fake), Options{}, zap.New(core))
	s.Similarity(context.Background(), "go   developer\n", "golang engineer")

	failed := logs.FilterMessage("embedding failed").All()
	if len(failed) == 0 {
		t.Fatal("expected an embedding failure log")
	}
	if got := failed[0].ContextMap()["text"]; got != "go developer" {
		t.Errorf("logged text = %v, want %q", got, "go developer")
	}
}

func TestServiceSerialize(t *testing.T) {
	fake := newFake()
	s := NewService("fake", staticInit(fake), Options{Serialize: true}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Similarity(context.Background(), "go developer", "golang engineer")
		}()
	}
	wg.Wait()

	if got := fake.maxSeen.Load(); got != 1 {
		t.Errorf("expected serialized backend access, saw %d concurrent calls", got)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := config.Default().Embedding

	if _, ok := New(cfg, "", zap.NewNop()).(Disabled); !ok {
		t.Error("expected Disabled for provider none")
	}

	cfg.Provider = config.ProviderGemini
	p := New(cfg, "", zap.NewNop())
	svc, ok := p.(*Service)
	if !ok {
		t.Fatalf("expected *Service for provider gemini, got %T", p)
	}

	// Missing API key makes the backend permanently unavailable
	if err := Warm(context.Background(), svc); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Warm() = %v, want ErrUnavailable", err)
	}

	name, state := Describe(p)
	if name != config.ProviderGemini || state != StateUnavailable {
		t.Errorf("Describe() = %s/%s, want gemini/unavailable", name, state)
	}

	name, state = Describe(Disabled{})
	if name != config.ProviderNone || state != StateUnavailable {
		t.Errorf("Describe(Disabled) = %s/%s", name, state)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StateUninitialized: "uninitialized",
		StateReady:         "ready",
		StateUnavailable:   "unavailable",
	} {
		if got := state.String(); !strings.EqualFold(got, want) {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
