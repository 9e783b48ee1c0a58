// Package metrics provides Prometheus metrics for credential issuance.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains issuance lifecycle metrics.
type Metrics struct {
	IssuedTotal         prometheus.Counter     // Successfully issued credentials
	RevokedTotal        prometheus.Counter     // Successfully revoked credentials
	IssueFailuresTotal  *prometheus.CounterVec // Issue failures by error code
	RevokeFailuresTotal *prometheus.CounterVec // Revoke failures by error code
	IssueDurationSeconds prometheus.Histogram  // End-to-end issue latency (pin + ledger write)
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		IssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillpass_credentials_issued_total",
			Help: "Total credentials successfully issued",
		}),

		RevokedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillpass_credentials_revoked_total",
			Help: "Total credentials successfully revoked",
		}),

		IssueFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_credential_issue_failures_total",
			Help: "Total issue failures by domain error code",
		}, []string{"code"}),

		RevokeFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_credential_revoke_failures_total",
			Help: "Total revoke failures by domain error code",
		}, []string{"code"}),

		IssueDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillpass_credential_issue_duration_seconds",
			Help:    "End-to-end issuance latency including metadata pin and ledger write",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
