// Package resolve classifies landing pages against known vendor signatures
// and emits candidate document URLs. Patterns are a data-driven registry
// evaluated in priority order; adding a vendor means appending a Pattern,
// not touching control flow.
package resolve

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"docsnare"
)

// Ensure Resolver implements docsnare.Resolver at compile time.
var _ docsnare.Resolver = (*Resolver)(nil)

// Pattern is one landing-page signature: predicates over URL shape and HTML
// markers, plus an extraction rule producing the candidate document URL.
type Pattern struct {
	Name docsnare.PatternName

	// Markers are query parameters this family emits in candidate URLs.
	// A URL already carrying one of them is a prior resolution output and
	// must never be re-resolved.
	Markers []string

	// URLMatch tests the URL shape. Nil matches any URL.
	URLMatch func(u *url.URL) bool

	// HTMLMatch tests for content markers. Nil matches any document.
	HTMLMatch func(doc *goquery.Document) bool

	// Extract returns the candidate URL, absolute, or "" when the matched
	// page carries no usable target.
	Extract func(u *url.URL, doc *goquery.Document) string
}

// Resolver evaluates patterns in priority order, first match wins.
// It is stateless and safe for concurrent use.
type Resolver struct {
	patterns []Pattern
}

// New creates a Resolver with the default pattern table.
func New() *Resolver {
	return &Resolver{patterns: defaultPatterns()}
}

// NewWithPatterns creates a Resolver with a custom pattern table,
// evaluated in the given order.
func NewWithPatterns(patterns []Pattern) *Resolver {
	return &Resolver{patterns: patterns}
}

// Resolve classifies one (url, html) pair. On a pattern match the returned
// Resolution is provisional: the caller must fetch the candidate URL and
// confirm by inspecting that response's content, never by re-resolving.
//
// Resolve is idempotent: identical inputs always yield identical results.
func (r *Resolver) Resolve(rawURL, html string) (*docsnare.Resolution, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	// Loop guard, evaluated before any pattern regardless of HTML content:
	// a URL carrying a marker parameter is itself a resolution output.
	q := u.Query()
	for _, p := range r.patterns {
		for _, marker := range p.Markers {
			if q.Has(marker) {
				return noMatch(rawURL), nil
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return noMatch(rawURL), nil
	}

	for _, p := range r.patterns {
		if p.URLMatch != nil && !p.URLMatch(u) {
			continue
		}
		if p.HTMLMatch != nil && !p.HTMLMatch(doc) {
			continue
		}

		// First match wins. A match without a usable target resolves to
		// no match rather than falling through to lower priorities.
		candidate := p.Extract(u, doc)
		if candidate == "" || candidate == rawURL {
			break
		}
		return &docsnare.Resolution{
			URL:         candidate,
			Provisional: true,
			Pattern:     p.Name,
		}, nil
	}

	return noMatch(rawURL), nil
}

func noMatch(rawURL string) *docsnare.Resolution {
	return &docsnare.Resolution{URL: rawURL, Provisional: false, Pattern: docsnare.PatternNone}
}
