package ops

import (
	"math/rand/v2"
	"sync"

	audit "domainpanel/pkg/platform/audit"
)

// Sampler keeps a configurable fraction of operational events per action.
// Domain checks and syncs are frequent and usually sampled down.
type Sampler struct {
	mu           sync.RWMutex
	defaultRate  float64
	rateByAction map[audit.Action]float64
}

// NewSampler creates a sampler with the given default rate.
// Rate should be between 0.0 (sample nothing) and 1.0 (sample everything).
func NewSampler(defaultRate float64) *Sampler {
	return &Sampler{
		defaultRate:  clamp(defaultRate),
		rateByAction: make(map[audit.Action]float64),
	}
}

// ShouldSample reports whether an event with action is kept.
func (s *Sampler) ShouldSample(action audit.Action) bool {
	rate := s.rateFor(action)
	if rate >= 1 {
		return true
	}
	return rand.Float64() < rate //nolint:gosec
}

// SetRate sets the sample rate for a specific action.
func (s *Sampler) SetRate(action audit.Action, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByAction[action] = clamp(rate)
}

// SetDefaultRate changes the default sample rate.
func (s *Sampler) SetDefaultRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultRate = clamp(rate)
}

func (s *Sampler) rateFor(action audit.Action) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rate, ok := s.rateByAction[action]; ok {
		return rate
	}
	return s.defaultRate
}

func clamp(rate float64) float64 {
	return min(max(rate, 0), 1)
}
