package slog

import (
	"log/slog"
	"time"

	"docsnare"
)

// Ensure LoggingResolver implements docsnare.Resolver.
var _ docsnare.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with operation logging.
type LoggingResolver struct {
	next   docsnare.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next docsnare.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) Resolve(url, html string) (res *docsnare.Resolution, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		}
		if res != nil {
			attrs = append(attrs,
				"candidate", res.URL,
				"pattern", string(res.Pattern),
				"provisional", res.Provisional,
			)
		}
		r.logger.Info("resolve", attrs...)
	}(time.Now())
	return r.next.Resolve(url, html)
}
