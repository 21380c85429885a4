package provisioning

import (
	"context"
	"fmt"
	"log/slog"

	"domainpanel/pkg/platform/circuit"
	"domainpanel/pkg/platform/sentinel"
)

// Guarded wraps a Performer with a circuit breaker. Transport failures count
// against the breaker; refusals from the API prove it is up.
type Guarded struct {
	next    Performer
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(next Performer, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	return &Guarded{next: next, breaker: breaker, logger: logger}
}

func (g *Guarded) Perform(ctx context.Context, call Call) (Result, error) {
	if !g.breaker.Allow() {
		return nil, fmt.Errorf("%s: provisioning circuit open: %w", call.Command(), sentinel.ErrUnavailable)
	}

	res, err := g.next.Perform(ctx, call)
	if err != nil && !IsRemote(err) {
		if ctx.Err() != nil {
			return nil, err
		}
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "provisioning circuit opened",
				"breaker", g.breaker.Name(),
				"command", call.Command(),
				"error", err,
			)
		}
		return nil, err
	}

	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "provisioning circuit closed", "breaker", g.breaker.Name())
	}
	return res, err
}
