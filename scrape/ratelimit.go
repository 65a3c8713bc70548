package scrape

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"docsnare"
)

var _ docsnare.RateLimiter = (*HostLimiter)(nil)

// HostLimiter throttles request volume per origin host using token buckets.
// Each host gets its own limiter, so concurrent operations against different
// hosts never wait on each other. The wait happens once per invocation,
// before navigation; in-page interaction is never throttled.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second per
// host, with a burst of 1.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
