package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepEvery is how often Allow drops keys whose windows have passed.
const sweepEvery = time.Minute

type slidingWindow struct {
	stamps []time.Time
	length time.Duration
}

// InMemoryStore keeps sliding windows in process. Limits are per instance.
type InMemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*slidingWindow
	lastSweep time.Time
	now       func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{windows: make(map[string]*slidingWindow), now: time.Now}
}

func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	w, ok := s.windows[key]
	if !ok {
		w = &slidingWindow{}
		s.windows[key] = w
	}
	w.length = window
	w.stamps = prune(w.stamps, now.Add(-window))

	if len(w.stamps) >= limit {
		resetAt := now.Add(window)
		if len(w.stamps) > 0 {
			resetAt = w.stamps[0].Add(window)
		} else {
			delete(s.windows, key)
		}
		return &Result{
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}

	w.stamps = append(w.stamps, now)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.stamps),
		ResetAt:   w.stamps[0].Add(window),
	}, nil
}

// Len returns the number of keys with a live window.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// sweep deletes keys whose newest request left their window. It runs at
// most once per sweepEvery.
func (s *InMemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepEvery {
		return
	}
	s.lastSweep = now
	for key, w := range s.windows {
		if len(prune(w.stamps, now.Add(-w.length))) == 0 {
			delete(s.windows, key)
		}
	}
}

// prune drops timestamps at or before cutoff.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
