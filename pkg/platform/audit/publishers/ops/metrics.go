package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for operational auditing. A nil *Metrics
// records nothing.
type Metrics struct {
	Tracked         prometheus.Counter
	Sampled         prometheus.Counter
	BreakerDropped  prometheus.Counter
	PersistFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

// NewMetrics creates and registers the operational audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Tracked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_ops_tracked_total",
			Help: "Operational audit events written",
		}),
		Sampled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_ops_sampled_total",
			Help: "Operational audit events dropped by sampling",
		}),
		BreakerDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_ops_breaker_dropped_total",
			Help: "Operational audit events dropped while the store breaker was open",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_ops_persist_failures_total",
			Help: "Operational audit events the store rejected",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "domainpanel_audit_ops_breaker_open",
			Help: "1 while the operational audit store breaker is open",
		}),
	}
}

func (m *Metrics) IncTracked() {
	if m != nil {
		m.Tracked.Inc()
	}
}

func (m *Metrics) IncSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) IncBreakerDropped() {
	if m != nil {
		m.BreakerDropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
