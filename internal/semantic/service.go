package semantic

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/alumnet/internal/logger"
	"github.com/vijay-prabhu/alumnet/internal/metrics"
)

// Initializer builds the backend. It is called at most once per Service.
type Initializer func(ctx context.Context) (Embedder, error)

// Options tunes a Service
type Options struct {
	// Serialize guards encode-and-compare with a mutex for backends that are
	// not safe for concurrent use.
	Serialize bool
	// CacheSize bounds the number of memoized embeddings; 0 disables the memo.
	CacheSize int
	// BreakerFailures consecutive backend errors open the breaker.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
}

// Service is a Provider backed by an Embedder that is initialized lazily,
// exactly once. If initialization fails the service stays unavailable for
// the life of the process. Service is safe for concurrent use.
type Service struct {
	name   string
	init   Initializer
	opts   Options
	logger *zap.Logger

	once     sync.Once
	state    atomic.Int32
	embedder Embedder
	breaker  *gobreaker.CircuitBreaker[[]float32]

	callMu sync.Mutex

	cacheMu sync.Mutex
	cache   map[string][]float32
}

// NewService creates an uninitialized Service
func NewService(name string, init Initializer, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	s := &Service{
		name:   name,
		init:   init,
		opts:   opts,
		logger: logger.With(zap.String("component", "semantic"), zap.String("backend", name)),
		cache:  make(map[string][]float32),
	}

	s.breaker = gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:    name,
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Debug("embedding breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	metrics.SemanticState.Set(float64(StateUninitialized))
	return s
}

// Name returns the backend name
func (s *Service) Name() string {
	return s.name
}

// State reports the lifecycle state without triggering initialization
func (s *Service) State() State {
	return State(s.state.Load())
}

// Init initializes the backend on first call. Later calls report the
// outcome of that first attempt.
func (s *Service) Init(ctx context.Context) error {
	s.once.Do(func() {
		if s.init == nil {
			s.markUnavailable(errors.New("no initializer"))
			return
		}

		// The first caller's cancellation must not decide the outcome for
		// the whole process.
		emb, err := s.init(context.WithoutCancel(ctx))
		if err != nil {
			s.markUnavailable(err)
			return
		}
		if emb == nil {
			s.markUnavailable(errors.New("initializer returned no embedder"))
			return
		}

		s.embedder = emb
		s.state.Store(int32(StateReady))
		metrics.SemanticState.Set(float64(StateReady))
		fields := []zap.Field{}
		if m, ok := emb.(interface{ Model() string }); ok {
			fields = append(fields, zap.String("model", m.Model()))
		}
		s.logger.Info("semantic similarity ready", fields...)
	})

	if s.State() != StateReady {
		return ErrUnavailable
	}
	return nil
}

func (s *Service) markUnavailable(err error) {
	s.state.Store(int32(StateUnavailable))
	metrics.SemanticState.Set(float64(StateUnavailable))
	s.logger.Warn("semantic similarity disabled", zap.Error(err))
}

// Similarity returns the scaled cosine similarity of the two texts, or 0
// when either is blank or the backend cannot produce embeddings.
func (s *Service) Similarity(ctx context.Context, text1, text2 string) int {
	if blank(text1) || blank(text2) {
		return 0
	}
	if err := s.Init(ctx); err != nil {
		return 0
	}

	if s.opts.Serialize {
		s.callMu.Lock()
		defer s.callMu.Unlock()
	}

	a, err := s.embed(ctx, text1)
	if err != nil {
		return 0
	}
	b, err := s.embed(ctx, text2)
	if err != nil {
		return 0
	}

	return Scale(CosineSimilarity(a, b))
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.cached(text); ok {
		metrics.SemanticEmbeds.WithLabelValues("cached").Inc()
		return v, nil
	}

	v, err := s.breaker.Execute(func() ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "open"
		}
		metrics.SemanticEmbeds.WithLabelValues(result).Inc()
		s.logger.Debug("embedding failed", logger.Snippet("text", text), zap.Error(err))
		return nil, err
	}

	metrics.SemanticEmbeds.WithLabelValues("ok").Inc()
	s.remember(text, v)
	return v, nil
}

func (s *Service) cached(text string) ([]float32, bool) {
	if s.opts.CacheSize <= 0 {
		return nil, false
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	v, ok := s.cache[text]
	return v, ok
}

func (s *Service) remember(text string, v []float32) {
	if s.opts.CacheSize <= 0 {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if len(s.cache) >= s.opts.CacheSize {
		clear(s.cache)
	}
	s.cache[text] = v
}
