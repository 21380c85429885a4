package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded per operation.
const (
	OutcomeSucceeded   = "succeeded"
	OutcomeInvalid     = "invalid"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeFailed      = "failed"
)

// Metrics provides observability for the domain module.
type Metrics struct {
	// Form submissions by operation and outcome
	Operations *prometheus.CounterVec

	// End to end latency of a submission, remote call included
	OperationLatency *prometheus.HistogramVec

	// Cache lookups by cache ("check", "zones") and result ("hit", "miss")
	CacheLookups *prometheus.CounterVec

	// Projection writes that failed after a successful remote call
	ProjectionFailures prometheus.Counter
}

// New creates a Metrics instance with all domain metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainpanel_domain_operations_total",
			Help: "Domain form submissions by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domainpanel_domain_operation_duration_seconds",
			Help:    "Duration of domain operations including the remote call",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}, []string{"operation"}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domainpanel_domain_cache_lookups_total",
			Help: "Cache lookups by cache and result",
		}, []string{"cache", "result"}),

		ProjectionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_domain_projection_failures_total",
			Help: "Local projection updates that failed",
		}),
	}
}

// ObserveOperation records one submission.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m != nil {
		m.Operations.WithLabelValues(operation, outcome).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) IncProjectionFailures() {
	if m != nil {
		m.ProjectionFailures.Inc()
	}
}
