// Package security buffers security audit events and flushes them to a store
// in the background. Emit never blocks the request path; under pressure the
// oldest events are dropped and counted.
package security

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "domainpanel/pkg/platform/audit"
)

const (
	defaultFlushInterval = time.Second
	defaultBatchSize     = 100
)

// Publisher queues security events and writes them in batches.
type Publisher struct {
	store         audit.Store
	buffer        *RingBuffer
	logger        *slog.Logger
	metrics       *Metrics
	flushInterval time.Duration
	batchSize     int
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) { p.buffer = NewRingBuffer(n) }
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// New creates a security publisher. Call Run to start flushing.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		buffer:        NewRingBuffer(0),
		logger:        slog.Default(),
		flushInterval: defaultFlushInterval,
		batchSize:     defaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit queues event for the next flush.
func (p *Publisher) Emit(_ context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.CategorySecurity
	if p.buffer.Enqueue(event) {
		p.metrics.IncDropped()
	}
	p.metrics.SetQueued(p.buffer.Len())
}

// Run flushes on every tick until ctx is done, then drains what is left.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Drain with a fresh context; ctx is already cancelled.
			p.Flush(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			p.Flush(ctx)
		}
	}
}

// Flush writes every queued event. Failed writes are logged and counted.
func (p *Publisher) Flush(ctx context.Context) {
	for {
		batch := p.buffer.DequeueBatch(p.batchSize)
		if len(batch) == 0 {
			break
		}
		for _, event := range batch {
			if err := p.store.Append(ctx, event); err != nil {
				p.metrics.IncPersistFailures()
				p.logger.WarnContext(ctx, "security audit write failed",
					"action", event.Action,
					"subject", event.Subject,
					"error", err,
				)
				continue
			}
			p.metrics.IncFlushed()
		}
	}
	p.metrics.SetQueued(p.buffer.Len())
}

// Metrics holds Prometheus metrics for security auditing. A nil *Metrics
// records nothing.
type Metrics struct {
	Flushed         prometheus.Counter
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
	Queued          prometheus.Gauge
}

// NewMetrics creates and registers the security audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Flushed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_security_flushed_total",
			Help: "Security audit events written to the store",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_security_dropped_total",
			Help: "Security audit events dropped on buffer overflow",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domainpanel_audit_security_persist_failures_total",
			Help: "Security audit events the store rejected",
		}),
		Queued: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "domainpanel_audit_security_queued",
			Help: "Security audit events waiting for the next flush",
		}),
	}
}

func (m *Metrics) IncFlushed() {
	if m != nil {
		m.Flushed.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) SetQueued(n int) {
	if m != nil {
		m.Queued.Set(float64(n))
	}
}
