// Package rate provides keyed, client-side request limiting.
package rate

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter limits operations per key.
type Limiter interface {
	Allow(key string) (bool, error)
}

type localLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalLimiter returns an in-memory token bucket limiter that allows limit
// operations per second per key, with bursts of up to burst. A burst below 1
// defaults to the per second limit.
func NewLocalLimiter(limit rate.Limit, burst int) Limiter {
	if burst < 1 {
		burst = int(limit)
	}
	if burst < 1 {
		burst = 1
	}

	return &localLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *localLimiter) Allow(key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// NoLimiter never limits operations.
type NoLimiter struct{}

func (NoLimiter) Allow(string) (bool, error) {
	return true, nil
}
