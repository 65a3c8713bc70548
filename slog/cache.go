package slog

import (
	"context"
	"log/slog"
	"time"

	"docsnare"
)

// Ensure LoggingCache implements docsnare.Cache.
var _ docsnare.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with operation logging. Hits and misses are
// logged at debug level to keep normal runs quiet.
type LoggingCache struct {
	next   docsnare.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next docsnare.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs the outcome.
func (c *LoggingCache) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache get",
			"key", key,
			"hit", ok,
			"bytes", len(value),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Get(ctx, key)
}

// Set delegates to the wrapped cache and logs the outcome.
func (c *LoggingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache set",
			"key", key,
			"bytes", len(value),
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Set(ctx, key, value, ttl)
}

// Close delegates to the wrapped cache.
func (c *LoggingCache) Close() error {
	return c.next.Close()
}
