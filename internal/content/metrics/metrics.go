// Package metrics provides Prometheus metrics for the content layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains content store and cache metrics.
type Metrics struct {
	PinsTotal           *prometheus.CounterVec   // Pin attempts by outcome (ok, error)
	PinDurationSeconds  prometheus.Histogram     // Pin latency against the external store
	FetchesTotal        *prometheus.CounterVec   // Fetches by outcome (ok, miss, error, integrity_violation)
	CacheHitsTotal      prometheus.Counter       // Metadata cache hits
	CacheMissesTotal    prometheus.Counter       // Metadata cache misses
	IntegrityChecksTotal *prometheus.CounterVec  // Integrity verifications by result (ok, mismatch)
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		PinsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_content_pins_total",
			Help: "Total metadata pin attempts by outcome",
		}, []string{"outcome"}),

		PinDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillpass_content_pin_duration_seconds",
			Help:    "Duration of pin operations against the external store",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		FetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_content_fetches_total",
			Help: "Total metadata fetches by outcome",
		}, []string{"outcome"}),

		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillpass_content_cache_hits_total",
			Help: "Total metadata cache hits",
		}),

		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillpass_content_cache_misses_total",
			Help: "Total metadata cache misses",
		}),

		IntegrityChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_content_integrity_checks_total",
			Help: "Total metadata integrity verifications by result",
		}, []string{"result"}),
	}
}
