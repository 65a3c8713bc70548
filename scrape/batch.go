package scrape

import (
	"context"

	"golang.org/x/sync/errgroup"

	"docsnare"
)

// BatchResult is the per-URL outcome of a ScrapeAll run.
type BatchResult struct {
	URL    string
	Result *docsnare.ScrapeResult
	Err    error
}

// ScrapeAll scrapes every URL with the same options, running up to
// Concurrency invocations in parallel. Invocations are independent; a
// failure for one URL is recorded in its BatchResult and does not stop the
// others. Results are returned in input order.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, opts Options) []BatchResult {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]BatchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			result, err := s.Scrape(gctx, u, opts)
			results[i] = BatchResult{URL: u, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
