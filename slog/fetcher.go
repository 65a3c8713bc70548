// Package slog provides logging decorators for docsnare services.
// Each decorator wraps an implementation of a root interface and logs the
// operation outcome with log/slog, leaving the wrapped behavior unchanged.
package slog

import (
	"context"
	"log/slog"
	"time"

	"docsnare"
)

// Ensure LoggingFetcher implements docsnare.Fetcher.
var _ docsnare.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with operation logging.
type LoggingFetcher struct {
	next   docsnare.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docsnare.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, opts docsnare.FetchOptions) (res *docsnare.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		}
		if res != nil {
			attrs = append(attrs,
				"bytes", len(res.HTML),
				"links", len(res.Links),
				"download", res.Download != nil,
				"interactive", res.Session != nil,
			)
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url, opts)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
