package rod

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"docsnare"
	"docsnare/goquery"
)

// Ensure Fetcher implements the interface.
var _ docsnare.Fetcher = (*Fetcher)(nil)

// DefaultDownloadGrace is how long a navigation waits for an in-flight
// download to finish after the page itself fails to load. Sites that serve
// documents from a landing URL abort navigation and stream a file instead.
const DefaultDownloadGrace = 30 * time.Second

// Fetcher fetches pages using a real browser, executing JavaScript and
// capturing direct downloads. Every successful fetch of an HTML page carries
// an open InteractiveSession which the caller must close.
type Fetcher struct {
	manager *BrowserManager
	extract docsnare.LinkExtractor
	grace   time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLinkExtractor sets the extractor used on rendered HTML.
// Defaults to goquery.NewExtractor().
func WithLinkExtractor(e docsnare.LinkExtractor) Option {
	return func(f *Fetcher) {
		f.extract = e
	}
}

// WithDownloadGrace sets how long to wait for a download triggered by
// navigation. Defaults to DefaultDownloadGrace.
func WithDownloadGrace(d time.Duration) Option {
	return func(f *Fetcher) {
		f.grace = d
	}
}

// NewFetcher creates a browser-backed Fetcher on top of a BrowserManager.
// The manager is not owned by the fetcher; callers close it separately.
func NewFetcher(manager *BrowserManager, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager: manager,
		extract: goquery.NewExtractor(),
		grace:   DefaultDownloadGrace,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to rawURL and returns the rendered page together with a
// live session. If navigation triggers a file download instead of a page
// load, the result carries the downloaded payload and no session.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts docsnare.FetchOptions) (*docsnare.FetchResult, error) {
	browser := f.manager.Browser()

	dir, err := os.MkdirTemp("", "docsnare-dl-*")
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EINTERNAL, "creating download dir: %v", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		os.RemoveAll(dir)
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "opening page: %v", err)
	}
	page = page.Context(ctx)

	cleanup := func() {
		_ = page.Close()
		os.RemoveAll(dir)
	}

	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			cleanup()
			return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "setting user agent: %v", err)
		}
	}
	if len(opts.Headers) > 0 {
		var pairs []string
		for k, v := range opts.Headers {
			pairs = append(pairs, k, v)
		}
		if _, err := page.SetExtraHeaders(pairs); err != nil {
			cleanup()
			return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "setting headers: %v", err)
		}
	}

	dl := watchDownloads(ctx, browser, dir)

	err = proto.BrowserSetDownloadBehavior{
		Behavior:         proto.BrowserSetDownloadBehaviorBehaviorAllowAndName,
		BrowserContextID: browser.BrowserContextID,
		DownloadPath:     dir,
		EventsEnabled:    true,
	}.Call(browser)
	if err != nil {
		cleanup()
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "configuring downloads: %v", err)
	}

	navErr := f.navigate(page, rawURL)
	f.manager.IncrementPageCount()

	if navErr != nil {
		// Chrome aborts navigation when the server streams a file instead
		// of a document. Give the download a chance to complete before
		// treating the abort as a failure.
		grace := f.grace
		if !isAbortedNavigation(navErr) {
			grace = 0
		}
		select {
		case d := <-dl:
			_ = page.Close()
			os.RemoveAll(dir)
			return &docsnare.FetchResult{FinalURL: rawURL, Download: d}, nil
		case <-time.After(grace):
		case <-ctx.Done():
		}
		cleanup()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "navigating to %s: %v", rawURL, navErr)
	}

	// Navigation succeeded but the page may still have kicked off a
	// download, e.g. via a meta refresh to a file URL.
	select {
	case d := <-dl:
		_ = page.Close()
		os.RemoveAll(dir)
		return &docsnare.FetchResult{FinalURL: rawURL, Download: d}, nil
	default:
	}

	html, err := page.HTML()
	if err != nil {
		cleanup()
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "reading page HTML: %v", err)
	}

	finalURL := rawURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	links, err := f.extract.Extract(html)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("extracting links: %w", err)
	}

	return &docsnare.FetchResult{
		FinalURL: finalURL,
		HTML:     html,
		Links:    links.Links(),
		Session: &session{
			page:    page,
			extract: f.extract,
			dir:     dir,
		},
	}, nil
}

// navigate loads rawURL and waits for the page to stabilize.
func (f *Fetcher) navigate(page *rod.Page, rawURL string) error {
	if err := page.Navigate(rawURL); err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}
	// Best effort; some pages never go network-idle.
	_ = page.WaitIdle(5 * time.Second)
	return nil
}

// watchDownloads returns a channel that receives at most one completed
// download written under dir.
func watchDownloads(ctx context.Context, browser *rod.Browser, dir string) <-chan *docsnare.Download {
	out := make(chan *docsnare.Download, 1)

	go func() {
		var guid, filename string
		browser.Context(ctx).EachEvent(
			func(e *proto.BrowserDownloadWillBegin) {
				guid = e.GUID
				filename = e.SuggestedFilename
			},
			func(e *proto.BrowserDownloadProgress) bool {
				if e.GUID != guid {
					return false
				}
				switch e.State {
				case proto.BrowserDownloadProgressStateCompleted:
					data, err := os.ReadFile(filepath.Join(dir, guid))
					if err != nil {
						return true
					}
					out <- &docsnare.Download{
						Filename:    filename,
						ContentType: http.DetectContentType(data),
						Data:        data,
					}
					return true
				case proto.BrowserDownloadProgressStateCanceled:
					return true
				}
				return false
			},
		)()
	}()

	return out
}

// isAbortedNavigation reports whether err looks like Chrome canceling a
// navigation in favor of a download.
func isAbortedNavigation(err error) bool {
	return strings.Contains(err.Error(), "ERR_ABORTED")
}

// Close is a no-op; the BrowserManager owns the browser lifecycle.
func (f *Fetcher) Close() error {
	return nil
}
