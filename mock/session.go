package mock

import (
	"context"

	"docsnare"
)

var _ docsnare.InteractiveSession = (*Session)(nil)

// Session is a mock implementation of docsnare.InteractiveSession.
type Session struct {
	QueryAllFn func(ctx context.Context, selector string) ([]docsnare.ElementHandle, error)
	HTMLFn     func(ctx context.Context) (string, error)
	LinksFn    func(ctx context.Context) ([]docsnare.LinkRecord, error)
	CloseFn    func() error
}

func (s *Session) QueryAll(ctx context.Context, selector string) ([]docsnare.ElementHandle, error) {
	return s.QueryAllFn(ctx, selector)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	if s.HTMLFn == nil {
		return "", nil
	}
	return s.HTMLFn(ctx)
}

func (s *Session) Links(ctx context.Context) ([]docsnare.LinkRecord, error) {
	return s.LinksFn(ctx)
}

func (s *Session) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

var _ docsnare.ElementHandle = (*Element)(nil)

// Element is a mock implementation of docsnare.ElementHandle.
type Element struct {
	FingerprintFn func() string
	VisibleFn     func() (bool, error)
	ClickFn       func() error
}

func (e *Element) Fingerprint() string {
	return e.FingerprintFn()
}

func (e *Element) Visible() (bool, error) {
	if e.VisibleFn == nil {
		return true, nil
	}
	return e.VisibleFn()
}

func (e *Element) Click() error {
	if e.ClickFn == nil {
		return nil
	}
	return e.ClickFn()
}
