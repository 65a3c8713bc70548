package mock

import "docsnare"

var _ docsnare.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of docsnare.Resolver.
type Resolver struct {
	ResolveFn func(url, html string) (*docsnare.Resolution, error)
}

func (r *Resolver) Resolve(url, html string) (*docsnare.Resolution, error) {
	return r.ResolveFn(url, html)
}
