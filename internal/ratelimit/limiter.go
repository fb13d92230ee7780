package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Limit is a token bucket setting. A zero RequestsPerSecond disables
// limiting for the backend.
type Limit struct {
	RequestsPerSecond float64 `yaml:"rps"`
	Burst             int     `yaml:"burst"`
}

func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

func (l Limit) limiter() *rate.Limiter {
	if l.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := l.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(l.RequestsPerSecond), burst)
}

// BackendLimiter keeps one token bucket per reservation backend so a burst
// of operator searches cannot exceed what each upstream accepts.
type BackendLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Limit
}

func NewBackendLimiter(defaults Limit, perBackend map[string]Limit) *BackendLimiter {
	b := &BackendLimiter{
		limiters: make(map[string]*rate.Limiter, len(perBackend)),
		defaults: defaults,
	}
	for name, l := range perBackend {
		b.limiters[name] = l.limiter()
	}
	return b
}

func (b *BackendLimiter) limiterFor(backend string) *rate.Limiter {
	b.mu.RLock()
	limiter, ok := b.limiters[backend]
	b.mu.RUnlock()
	if ok {
		return limiter
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if limiter, ok = b.limiters[backend]; ok {
		return limiter
	}
	limiter = b.defaults.limiter()
	b.limiters[backend] = limiter
	return limiter
}

// Wait blocks until the backend has a token or ctx is done.
func (b *BackendLimiter) Wait(ctx context.Context, backend string) error {
	if err := b.limiterFor(backend).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", backend, err)
	}
	return nil
}
