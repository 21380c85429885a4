// Package ratelimit bounds how often one caller may hit an endpoint class.
// Availability checks and transfer requests each cost a provisioning call,
// so they get their own tighter classes.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// EndpointClass groups endpoints sharing a limit.
type EndpointClass string

const (
	ClassRead     EndpointClass = "read"
	ClassWrite    EndpointClass = "write"
	ClassCheck    EndpointClass = "check"
	ClassTransfer EndpointClass = "transfer"
)

// ClassOf classifies a request by route and method.
func ClassOf(r *http.Request) EndpointClass {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/domains/check"):
		return ClassCheck
	case strings.HasSuffix(path, "/domains/transfer"):
		return ClassTransfer
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		return ClassRead
	default:
		return ClassWrite
	}
}

// Limit allows Requests per Window. A zero Requests disables the class.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimits are per caller.
var DefaultLimits = map[EndpointClass]Limit{
	ClassRead:     {Requests: 300, Window: time.Minute},
	ClassWrite:    {Requests: 60, Window: time.Minute},
	ClassCheck:    {Requests: 120, Window: time.Minute},
	ClassTransfer: {Requests: 10, Window: time.Minute},
}

// Result is the outcome of one check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is set when the request was refused.
	RetryAfter time.Duration
}

// Store counts requests in a sliding window per key.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Limiter applies the class limits to a store.
type Limiter struct {
	store  Store
	limits map[EndpointClass]Limit
}

// NewLimiter uses limits, falling back to DefaultLimits for missing classes.
func NewLimiter(store Store, limits map[EndpointClass]Limit) *Limiter {
	merged := make(map[EndpointClass]Limit, len(DefaultLimits))
	for class, l := range DefaultLimits {
		merged[class] = l
	}
	for class, l := range limits {
		merged[class] = l
	}
	return &Limiter{store: store, limits: merged}
}

// Check counts one request of caller against class.
func (l *Limiter) Check(ctx context.Context, caller string, class EndpointClass) (*Result, error) {
	limit, ok := l.limits[class]
	if !ok || limit.Requests <= 0 {
		return &Result{Allowed: true}, nil
	}
	res, err := l.store.Allow(ctx, fmt.Sprintf("rl:%s:%s", class, caller), limit.Requests, limit.Window)
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", class, err)
	}
	return res, nil
}
