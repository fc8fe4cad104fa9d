// Package semantic scores the topical closeness of two free-text fields
// using text embeddings. Scores are integers in [0, 10]; any failure
// scores 0 so callers never have to handle an error.
package semantic

import (
	"context"
	"errors"
	"math"
	"strings"
)

// MaxScore is the similarity of two texts with identical embeddings
const MaxScore = 10

// ErrUnavailable is returned once the backend has failed to initialize
var ErrUnavailable = errors.New("semantic similarity unavailable")

// Provider scores two texts. Implementations never fail: a blank text or
// an unusable backend scores 0.
type Provider interface {
	Similarity(ctx context.Context, text1, text2 string) int
}

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Disabled is a Provider that never contributes
type Disabled struct{}

// Similarity always returns 0
func (Disabled) Similarity(context.Context, string, string) int {
	return 0
}

// State is the lifecycle of a Service
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when the vectors differ in length or either has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64

	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scale maps a cosine similarity onto the integer score range.
// Halves round to even; negative similarities score 0.
func Scale(cosine float64) int {
	if math.IsNaN(cosine) {
		return 0
	}
	v := int(math.RoundToEven(cosine * MaxScore))
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
