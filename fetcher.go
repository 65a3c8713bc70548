package docsnare

import "context"

// FetchOptions carries per-request transport options.
type FetchOptions struct {
	// Headers are added to the outgoing request. Nil is fine.
	Headers map[string]string

	// UserAgent overrides the implementation default when non-empty.
	UserAgent string
}

// Download is a captured file payload. Fetch implementations surface a
// navigation that triggered a file download as a Download variant rather
// than as an error.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data"`
}

// FetchResult is the outcome of fetching one URL. Exactly one of the
// following shapes is populated:
//
//   - a rendered page: HTML and Links set, Download nil;
//   - a captured file: Download set, HTML empty.
//
// Session is non-nil only for interactive (browser-backed) fetchers; the
// caller owns it and must Close it on every path.
type FetchResult struct {
	FinalURL string
	HTML     string
	Links    []LinkRecord
	Download *Download
	Session  InteractiveSession
}

// Fetcher retrieves content from URLs. Implementations cover three capability
// tiers: plain HTTP (no JavaScript), normalized-DOM, and full browser
// automation (returns a live InteractiveSession).
type Fetcher interface {
	// Fetch retrieves the URL and returns the rendered result.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string, opts FetchOptions) (*FetchResult, error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// InteractiveSession is a live browser page that supports element discovery,
// clicking, and re-extraction after DOM mutation. Sessions are owned by a
// single operation and are not safe for concurrent use.
type InteractiveSession interface {
	// QueryAll returns handles for all elements currently matching the
	// CSS selector.
	QueryAll(ctx context.Context, selector string) ([]ElementHandle, error)

	// HTML returns the current serialized DOM.
	HTML(ctx context.Context) (string, error)

	// Links re-extracts anchors from the current DOM.
	Links(ctx context.Context) ([]LinkRecord, error)

	// Close tears down the page. Safe to call multiple times.
	Close() error
}

// ElementHandle is a live DOM element. Handles returned by separate QueryAll
// calls are distinct objects even when they refer to the same element; the
// Fingerprint is the stable identity across queries.
type ElementHandle interface {
	// Fingerprint returns a stable structural identity for the element:
	// its path from the document root using tag name and index among
	// element siblings. The fingerprint survives repeated live queries
	// as long as the element keeps its position in the tree.
	Fingerprint() string

	// Visible reports whether the element is currently rendered visibly.
	Visible() (bool, error)

	// Click activates the element. An error means the element was not
	// clickable at this moment; it is not fatal to the session.
	Click() error
}
