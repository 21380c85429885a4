// Package ops records routine operational audit events on a best-effort
// basis. Events may be sampled, and writes are skipped while the store is
// failing.
package ops

import (
	"context"
	"log/slog"
	"time"

	audit "domainpanel/pkg/platform/audit"
	"domainpanel/pkg/platform/circuit"
)

// Tracker writes operational events through a sampler and a circuit breaker.
type Tracker struct {
	store   audit.Store
	sampler *Sampler
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Tracker)

func WithSampler(s *Sampler) Option {
	return func(t *Tracker) { t.sampler = s }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(t *Tracker) { t.breaker = b }
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// New creates a tracker that keeps every event until configured otherwise.
func New(store audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		sampler: NewSampler(1),
		breaker: circuit.New("audit-ops"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track writes event unless it is sampled out or the breaker is open.
// Failures are logged and never returned.
func (t *Tracker) Track(ctx context.Context, event audit.Event) {
	if !t.sampler.ShouldSample(event.Action) {
		t.metrics.IncSampled()
		return
	}
	if !t.breaker.Allow() {
		t.metrics.IncBreakerDropped()
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.CategoryOperations

	if err := t.store.Append(ctx, event); err != nil {
		t.metrics.IncPersistFailures()
		if _, change := t.breaker.RecordFailure(); change.Opened {
			t.metrics.SetBreakerOpen(true)
			t.logger.WarnContext(ctx, "ops audit breaker opened", "error", err)
		}
		return
	}
	if _, change := t.breaker.RecordSuccess(); change.Closed {
		t.metrics.SetBreakerOpen(false)
		t.logger.InfoContext(ctx, "ops audit breaker closed")
	}
	t.metrics.IncTracked()
}
