// Package http provides an HTTP-based implementation of docsnare.Fetcher for
// fetching content from static sites that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"docsnare"
	"docsnare/goquery"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// maxBodySize caps response bodies to protect against runaway payloads.
const maxBodySize = 64 << 20 // 64 MiB

// Ensure Fetcher implements docsnare.Fetcher at compile time.
var _ docsnare.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves content from URLs using plain HTTP requests. Unlike
// rod.Fetcher, it does not execute JavaScript and never returns an
// interactive session, so it is suitable for static sites only. Responses
// with a non-HTML content type are surfaced as downloads.
type Fetcher struct {
	client  *http.Client
	extract docsnare.LinkExtractor
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the underlying http.Client. The client's own timeout is
// left untouched.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithLinkExtractor sets the extractor used on fetched HTML.
// Defaults to goquery.NewExtractor().
func WithLinkExtractor(e docsnare.LinkExtractor) Option {
	return func(f *Fetcher) {
		f.extract = e
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		extract: goquery.NewExtractor(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the content at rawURL. HTML responses come back with
// extracted links; anything else is returned as a download.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts docsnare.FetchOptions) (*docsnare.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EINVALID, "building request for %s: %v", rawURL, err)
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "fetching %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "reading response from %s: %v", rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType, body) {
		return &docsnare.FetchResult{
			FinalURL: finalURL,
			Download: &docsnare.Download{
				Filename:    downloadFilename(resp),
				ContentType: contentType,
				Data:        body,
			},
		}, nil
	}

	html := string(body)
	links, err := f.extract.Extract(html)
	if err != nil {
		return nil, err
	}

	return &docsnare.FetchResult{
		FinalURL: finalURL,
		HTML:     html,
		Links:    links.Links(),
	}, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// isHTML reports whether the response should be treated as an HTML page.
// Servers that omit the content type get content sniffing instead.
func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// downloadFilename derives a filename from the Content-Disposition header,
// falling back to the last URL path segment.
func downloadFilename(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	if resp.Request != nil && resp.Request.URL != nil {
		path := resp.Request.URL.Path
		if i := strings.LastIndex(path, "/"); i >= 0 && i+1 < len(path) {
			return path[i+1:]
		}
	}
	return ""
}
