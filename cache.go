package docsnare

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL. Keys carry
// their own namespace prefix; the store does not interpret them.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored for key. The second return value is
	// false on a miss (including expired entries).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A ttl <= 0 stores the entry without
	// an expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases store resources.
	Close() error
}

// RateLimiter throttles request volume against origin hosts. The orchestrator
// waits once per invocation, before navigation begins, so in-page interaction
// is never slowed down.
type RateLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
