// Package metrics provides Prometheus metrics for the issuer registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains issuer registry metrics.
type Metrics struct {
	ApprovalChecksTotal *prometheus.CounterVec // Lookups by result (approved/denied)
	SetOperationsTotal  *prometheus.CounterVec // Mutations by action (approved/removed)
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		ApprovalChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_issuer_approval_checks_total",
			Help: "Total issuer approval lookups by result",
		}, []string{"result"}),

		SetOperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillpass_issuer_set_operations_total",
			Help: "Total issuer set mutations by action",
		}, []string{"action"}),
	}
}
