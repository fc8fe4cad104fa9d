// Package metrics holds the Prometheus instruments for the recommendation
// engine and the semantic similarity service.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation kinds used as the "kind" label
const (
	KindPeople = "people"
	KindJobs   = "jobs"
)

// Request outcomes used as the "outcome" label
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// Engine Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnet_recommend_requests_total",
			Help: "Total number of recommendation requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alumnet_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	CandidatesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnet_candidates_scored_total",
			Help: "Total number of candidates scored",
		},
		[]string{"kind"},
	)

	CandidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnet_candidates_dropped_total",
			Help: "Total number of scored candidates dropped for a non-positive score",
		},
		[]string{"kind"},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alumnet_store_query_duration_seconds",
			Help:    "Duration of store reads issued by the engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	// Semantic Similarity Metrics
	SemanticState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alumnet_semantic_state",
			Help: "Semantic provider state (0=uninitialized, 1=ready, 2=unavailable)",
		},
	)

	SemanticEmbeds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnet_semantic_embeds_total",
			Help: "Total number of embedding lookups by result",
		},
		[]string{"result"}, // "ok", "cached", "error", "open"
	)
)

// ObserveStoreQuery records the duration of one store read
func ObserveStoreQuery(query string, start time.Time) {
	StoreQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the current state of all registered metrics in the
// Prometheus text format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
