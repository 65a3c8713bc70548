package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsnare"
)

// Scraper composes a Fetcher, Cache, Resolver and the expansion Engine into
// the end-to-end scrape and document-resolution operations. All fields except
// Fetcher are optional. Scraper is safe for concurrent use; each invocation
// owns its own state and the cache is the only shared collaborator.
type Scraper struct {
	Fetcher  docsnare.Fetcher
	Cache    docsnare.Cache
	Resolver docsnare.Resolver
	Limiter  docsnare.RateLimiter

	// Content, Converter and PDF produce DocumentResult.Text: main-content
	// extraction plus Markdown conversion for HTML documents, text
	// extraction for PDF payloads. All best-effort.
	Content   docsnare.Extractor
	Converter docsnare.Converter
	PDF       docsnare.PDFExtractor

	Logger *slog.Logger

	// Concurrency bounds ScrapeAll workers. Defaults to 4.
	Concurrency int
}

// Options configures a single scrape or resolve invocation.
type Options struct {
	// Strategy selects static extraction (basic) or interactive
	// expansion (tree). Defaults to basic.
	Strategy docsnare.Strategy

	// MaxIterations bounds the expansion loop (tree strategy only).
	MaxIterations int

	// ClickDelay is the post-click settle time (tree strategy only).
	ClickDelay time.Duration

	// CustomSelectors override the engine's built-in selector priority
	// list.
	CustomSelectors []string

	// NoCache bypasses both cache reads and writes.
	NoCache bool

	// CacheTTL is the lifetime of the written cache entry. Zero disables
	// cache writes; reads are still served unless NoCache is set.
	CacheTTL time.Duration

	// Timeout bounds the entire invocation: navigation plus all expansion
	// iterations plus any confirmation fetch. Zero means no deadline
	// beyond the caller's context.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Strategy == "" {
		o.Strategy = docsnare.StrategyBasic
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.ClickDelay <= 0 {
		o.ClickDelay = DefaultClickDelay
	}
	return o
}

// Scrape fetches the URL, optionally expands its hidden structure, and
// returns the discovered link set with interaction metrics.
//
// Results are all-or-nothing: a session-level failure or timeout discards any
// partially discovered links. Hitting the iteration bound is still a complete
// operation; Confidence communicates discovery quality.
func (s *Scraper) Scrape(ctx context.Context, rawURL string, opts Options) (*docsnare.ScrapeResult, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	logger := s.logger().With("op", "scrape", "opID", uuid.NewString(), "url", rawURL)

	key := cacheKey(opScrape, rawURL, opts)
	if cached, ok := s.readCache(ctx, key, opts, logger); ok {
		var result docsnare.ScrapeResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, coerceTimeout(ctx, err)
		}
	}

	begin := time.Now()
	fetched, err := s.Fetcher.Fetch(ctx, rawURL, docsnare.FetchOptions{})
	if err != nil {
		return nil, coerceTimeout(ctx, err)
	}
	if fetched.Session != nil {
		defer fetched.Session.Close()
	}

	result := &docsnare.ScrapeResult{
		URL:        rawURL,
		Strategy:   opts.Strategy,
		Confidence: docsnare.ConfidenceFlat,
	}

	switch {
	case fetched.Download != nil:
		// Navigation started a file download instead of rendering a
		// page: a successful terminal outcome with zero links.
		logger.Info("navigation triggered download", "filename", fetched.Download.Filename)

	case opts.Strategy == docsnare.StrategyTree && fetched.Session != nil:
		engine := &Engine{
			MaxIterations: opts.MaxIterations,
			ClickDelay:    opts.ClickDelay,
			Selectors:     opts.CustomSelectors,
			Logger:        s.Logger,
		}
		exp, err := engine.Run(ctx, fetched.Session)
		if err != nil {
			return nil, coerceTimeout(ctx, err)
		}
		result.Links = exp.Links.Links()
		result.Confidence = exp.Confidence
		result.Metrics.InteractionCount = exp.Interactions
		if html, err := fetched.Session.HTML(ctx); err == nil {
			result.Content = html
		} else {
			result.Content = fetched.HTML
		}

	default:
		result.Content = fetched.HTML
		result.Links = fetched.Links
	}

	result.Metrics.Duration = time.Since(begin)
	result.Metrics.LinkCount = len(result.Links)
	result.Metrics.Complete = true

	s.writeCache(ctx, key, result, opts, logger)
	logger.Info("scrape complete",
		"links", result.Metrics.LinkCount,
		"interactions", result.Metrics.InteractionCount,
		"confidence", result.Confidence,
		"duration", result.Metrics.Duration,
	)
	return result, nil
}

// ResolveDocument fetches the URL, classifies it against the landing-page
// patterns, and follows a provisional resolution with exactly one
// confirmation fetch. Final classification of the candidate depends on that
// response's content, never on its URL; the resolver's loop guard prevents
// any further recursion.
func (s *Scraper) ResolveDocument(ctx context.Context, rawURL string, opts Options) (*docsnare.DocumentResult, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	logger := s.logger().With("op", "resolve", "opID", uuid.NewString(), "url", rawURL)

	key := cacheKey(opResolve, rawURL, opts)
	if cached, ok := s.readCache(ctx, key, opts, logger); ok {
		var result docsnare.DocumentResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, coerceTimeout(ctx, err)
		}
	}

	fetched, err := s.Fetcher.Fetch(ctx, rawURL, docsnare.FetchOptions{})
	if err != nil {
		return nil, coerceTimeout(ctx, err)
	}
	if fetched.Session != nil {
		defer fetched.Session.Close()
	}

	result := &docsnare.DocumentResult{
		URL:      rawURL,
		Strategy: opts.Strategy,
		Complete: true,
	}

	if fetched.Download != nil {
		s.classifyPayload(result, fetched.Download)
	} else {
		pageURL := fetched.FinalURL
		if pageURL == "" {
			pageURL = rawURL
		}
		resolution, err := s.resolve(pageURL, fetched.HTML)
		if err != nil {
			return nil, err
		}
		result.Pattern = resolution.Pattern

		if resolution.Provisional {
			logger.Info("provisional resolution", "pattern", resolution.Pattern, "candidate", resolution.URL)
			confirm, err := s.Fetcher.Fetch(ctx, resolution.URL, docsnare.FetchOptions{})
			if err != nil {
				return nil, coerceTimeout(ctx, err)
			}
			if confirm.Session != nil {
				defer confirm.Session.Close()
			}
			result.URL = resolution.URL
			if confirm.Download != nil {
				s.classifyPayload(result, confirm.Download)
			} else {
				// The candidate also served HTML; it is the
				// document itself, not a file.
				s.renderText(result, confirm.HTML)
			}
		} else {
			s.renderText(result, fetched.HTML)
		}
	}

	s.writeCache(ctx, key, result, opts, logger)
	logger.Info("document resolved",
		"finalURL", result.URL,
		"isPdf", result.IsPDF,
		"pattern", result.Pattern,
	)
	return result, nil
}

// resolve runs the configured Resolver; without one, every page is no match.
func (s *Scraper) resolve(pageURL, html string) (*docsnare.Resolution, error) {
	if s.Resolver == nil {
		return &docsnare.Resolution{URL: pageURL}, nil
	}
	return s.Resolver.Resolve(pageURL, html)
}

// classifyPayload fills result from a captured file. PDF detection uses the
// payload signature first and falls back to the declared content type.
func (s *Scraper) classifyPayload(result *docsnare.DocumentResult, dl *docsnare.Download) {
	result.FileBytes = dl.Data
	isPDF := strings.Contains(dl.ContentType, "application/pdf")
	if s.PDF != nil && s.PDF.IsPDF(dl.Data) {
		isPDF = true
	}
	result.IsPDF = isPDF
	if isPDF && s.PDF != nil {
		if text, err := s.PDF.ExtractText(dl.Data); err == nil {
			result.Text = text
		}
	}
}

// renderText fills result.Text with the Markdown of the page's main content.
func (s *Scraper) renderText(result *docsnare.DocumentResult, html string) {
	if s.Content == nil || s.Converter == nil || html == "" {
		return
	}
	extracted, err := s.Content.Extract(html)
	if err != nil || extracted.ContentHTML == "" {
		return
	}
	markdown, err := s.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return
	}
	result.Text = markdown
}

func (s *Scraper) readCache(ctx context.Context, key string, opts Options, logger *slog.Logger) ([]byte, bool) {
	if s.Cache == nil || opts.NoCache {
		return nil, false
	}
	data, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if ok {
		logger.Debug("cache hit", "key", key)
	}
	return data, ok
}

func (s *Scraper) writeCache(ctx context.Context, key string, result any, opts Options, logger *slog.Logger) {
	if s.Cache == nil || opts.NoCache || opts.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
	}
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// validateURL checks the input is syntactically an absolute HTTP(S) URL.
func validateURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, docsnare.Errorf(docsnare.EINVALID, "url required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EINVALID, "invalid url %q: %v", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, docsnare.Errorf(docsnare.EINVALID, "invalid url %q: absolute http(s) URL required", raw)
	}
	return u, nil
}

// coerceTimeout maps deadline expiry onto the timeout error code; any other
// error passes through unchanged.
func coerceTimeout(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return docsnare.Errorf(docsnare.ETIMEOUT, "operation timed out: %v", err)
	}
	return err
}
