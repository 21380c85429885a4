// Package compliance provides the fail-closed audit publisher for events a
// registrar must be able to produce on request: transfers, contact changes,
// pushes and renewals.
//
// Emit writes synchronously and returns the store error to the caller.
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	audit "domainpanel/pkg/platform/audit"
)

// ErrIncomplete is returned for events missing an action or a subject.
var ErrIncomplete = errors.New("compliance event needs an action and a subject")

// Publisher writes compliance events straight to the store.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps and appends event. A non-nil error means nothing was recorded
// and the caller must treat the event as lost.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" || event.Subject == "" {
		return ErrIncomplete
	}
	start := p.now()
	if event.Timestamp.IsZero() {
		event.Timestamp = start
	}
	event.Category = audit.CategoryCompliance

	err := p.store.Append(ctx, event)
	if err != nil {
		p.metrics.IncPersistFailures()
		p.logger.ErrorContext(ctx, "compliance event not recorded",
			"action", event.Action,
			"subject", event.Subject,
			"domain_id", event.DomainID,
			"user_id", event.UserID,
			"error", err,
		)
		return fmt.Errorf("record %s for %s: %w", event.Action, event.Subject, err)
	}
	p.metrics.ObservePersistDuration(time.Since(start).Seconds())
	p.metrics.IncEventsEmitted()
	return nil
}
