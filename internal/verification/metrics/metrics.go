// Package metrics provides Prometheus metrics for credential verification.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains verification metrics.
type Metrics struct {
	VerificationsTotal    *prometheus.CounterVec // Status lookups by resulting label
	ExpiryChecksTotal     prometheus.Counter     // Standalone expiry checks
	StatusDurationSeconds prometheus.Histogram   // Status lookup latency
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_verifications_total",
			Help: "Total credential status lookups by resulting label",
		}, []string{"label"}),

		ExpiryChecksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillpass_expiry_checks_total",
			Help: "Total standalone expiry checks",
		}),

		StatusDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillpass_verification_status_duration_seconds",
			Help:    "Duration of credential status lookups",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}
