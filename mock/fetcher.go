// Package mock provides hand-written mocks for docsnare interfaces.
package mock

import (
	"context"

	"docsnare"
)

var _ docsnare.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docsnare.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, opts docsnare.FetchOptions) (*docsnare.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, opts docsnare.FetchOptions) (*docsnare.FetchResult, error) {
	return f.FetchFn(ctx, url, opts)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
