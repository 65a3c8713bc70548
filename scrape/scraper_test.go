package scrape_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsnare"
	"docsnare/mock"
	"docsnare/scrape"
)

func staticFetcher(pages map[string]*docsnare.FetchResult) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string, _ docsnare.FetchOptions) (*docsnare.FetchResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			page, ok := pages[url]
			if !ok {
				return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "no route for %s", url)
			}
			return page, nil
		},
	}
}

func TestScrape_InvalidURL(t *testing.T) {
	t.Parallel()

	s := &scrape.Scraper{Fetcher: staticFetcher(nil)}

	for _, raw := range []string{"", "   ", "not a url", "ftp://example.com/x", "/relative/only"} {
		_, err := s.Scrape(context.Background(), raw, scrape.Options{})
		require.Error(t, err, "url %q", raw)
		assert.Equal(t, docsnare.EINVALID, docsnare.ErrorCode(err), "url %q", raw)
	}
}

func TestScrape_Basic(t *testing.T) {
	t.Parallel()

	links := []docsnare.LinkRecord{{Href: "/a", Text: "A"}, {Href: "/b", Text: "B"}}
	s := &scrape.Scraper{Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
		"https://example.com/docs": {FinalURL: "https://example.com/docs", HTML: "<html></html>", Links: links},
	})}

	result, err := s.Scrape(context.Background(), "https://example.com/docs", scrape.Options{})
	require.NoError(t, err)

	assert.Equal(t, docsnare.StrategyBasic, result.Strategy)
	assert.Equal(t, links, result.Links)
	assert.Equal(t, 2, result.Metrics.LinkCount)
	assert.Equal(t, 0, result.Metrics.InteractionCount)
	assert.True(t, result.Metrics.Complete)
	assert.Equal(t, docsnare.ConfidenceFlat, result.Confidence)
}

func TestScrape_DownloadTriggered(t *testing.T) {
	t.Parallel()

	s := &scrape.Scraper{Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
		"https://example.com/file": {Download: &docsnare.Download{Filename: "report.pdf", Data: []byte("%PDF-1.7")}},
	})}

	result, err := s.Scrape(context.Background(), "https://example.com/file", scrape.Options{})
	require.NoError(t, err)

	assert.Empty(t, result.Links)
	assert.True(t, result.Metrics.Complete)
}

func TestScrape_TreeStrategy(t *testing.T) {
	t.Parallel()

	expanded := false
	session := &mock.Session{
		QueryAllFn: func(_ context.Context, _ string) ([]docsnare.ElementHandle, error) {
			if expanded {
				return nil, nil
			}
			return []docsnare.ElementHandle{&mock.Element{
				FingerprintFn: func() string { return "details:0/summary:0" },
				ClickFn: func() error {
					expanded = true
					return nil
				},
			}}, nil
		},
		LinksFn: func(context.Context) ([]docsnare.LinkRecord, error) {
			if expanded {
				return []docsnare.LinkRecord{{Href: "/2024"}, {Href: "/2024/report"}}, nil
			}
			return []docsnare.LinkRecord{{Href: "/2024"}}, nil
		},
		HTMLFn: func(context.Context) (string, error) { return "<html>expanded</html>", nil },
	}

	s := &scrape.Scraper{Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
		"https://example.com/archive": {HTML: "<html>initial</html>", Session: session},
	})}

	result, err := s.Scrape(context.Background(), "https://example.com/archive", scrape.Options{
		Strategy:   docsnare.StrategyTree,
		ClickDelay: time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Metrics.InteractionCount)
	assert.Equal(t, docsnare.ConfidenceExpanded, result.Confidence)
	assert.Equal(t, 2, result.Metrics.LinkCount)
	assert.Equal(t, "<html>expanded</html>", result.Content)
}

func TestScrape_TreeStrategyClosesSession(t *testing.T) {
	t.Parallel()

	var closed atomic.Bool
	session := &mock.Session{
		QueryAllFn: func(context.Context, string) ([]docsnare.ElementHandle, error) { return nil, nil },
		LinksFn:    func(context.Context) ([]docsnare.LinkRecord, error) { return nil, nil },
		CloseFn: func() error {
			closed.Store(true)
			return nil
		},
	}

	s := &scrape.Scraper{Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
		"https://example.com/a": {HTML: "<html></html>", Session: session},
	})}

	_, err := s.Scrape(context.Background(), "https://example.com/a", scrape.Options{
		Strategy:   docsnare.StrategyTree,
		ClickDelay: time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, closed.Load(), "session must be closed on the success path")
}

func TestScrape_CacheRoundTrip(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	fetcher := &mock.Fetcher{
		FetchFn: func(context.Context, string, docsnare.FetchOptions) (*docsnare.FetchResult, error) {
			fetches.Add(1)
			return &docsnare.FetchResult{HTML: "<html></html>", Links: []docsnare.LinkRecord{{Href: "/a"}}}, nil
		},
	}
	s := &scrape.Scraper{Fetcher: fetcher, Cache: mock.NewMemoryCache()}

	opts := scrape.Options{CacheTTL: time.Minute}
	first, err := s.Scrape(context.Background(), "https://example.com/docs", opts)
	require.NoError(t, err)
	second, err := s.Scrape(context.Background(), "https://example.com/docs", opts)
	require.NoError(t, err)

	assert.Equal(t, int32(1), fetches.Load(), "second call must be served from cache")
	assert.Equal(t, first.Links, second.Links)
}

func TestScrape_CacheKeySensitivity(t *testing.T) {
	t.Parallel()

	// Changing only MaxIterations must not return the other call's cached
	// result.
	var fetches atomic.Int32
	fetcher := &mock.Fetcher{
		FetchFn: func(context.Context, string, docsnare.FetchOptions) (*docsnare.FetchResult, error) {
			fetches.Add(1)
			return &docsnare.FetchResult{HTML: "<html></html>"}, nil
		},
	}
	s := &scrape.Scraper{Fetcher: fetcher, Cache: mock.NewMemoryCache()}

	_, err := s.Scrape(context.Background(), "https://example.com/x", scrape.Options{MaxIterations: 3, CacheTTL: time.Minute})
	require.NoError(t, err)
	_, err = s.Scrape(context.Background(), "https://example.com/x", scrape.Options{MaxIterations: 5, CacheTTL: time.Minute})
	require.NoError(t, err)

	assert.Equal(t, int32(2), fetches.Load(), "distinct option sets must produce distinct cache keys")
}

func TestScrape_NoCacheBypassesReadAndWrite(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	fetcher := &mock.Fetcher{
		FetchFn: func(context.Context, string, docsnare.FetchOptions) (*docsnare.FetchResult, error) {
			fetches.Add(1)
			return &docsnare.FetchResult{HTML: "<html></html>"}, nil
		},
	}
	cache := mock.NewMemoryCache()
	s := &scrape.Scraper{Fetcher: fetcher, Cache: cache}

	opts := scrape.Options{NoCache: true, CacheTTL: time.Minute}
	_, err := s.Scrape(context.Background(), "https://example.com/x", opts)
	require.NoError(t, err)
	_, err = s.Scrape(context.Background(), "https://example.com/x", opts)
	require.NoError(t, err)

	assert.Equal(t, int32(2), fetches.Load())
	assert.Equal(t, 0, cache.Len(), "NoCache must skip writes entirely")
}

func TestScrape_ZeroTTLDisablesWrites(t *testing.T) {
	t.Parallel()

	cache := mock.NewMemoryCache()
	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://example.com/x": {HTML: "<html></html>"},
		}),
		Cache: cache,
	}

	_, err := s.Scrape(context.Background(), "https://example.com/x", scrape.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestScrape_Timeout(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, _ string, _ docsnare.FetchOptions) (*docsnare.FetchResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	s := &scrape.Scraper{Fetcher: fetcher}

	_, err := s.Scrape(context.Background(), "https://example.com/slow", scrape.Options{Timeout: 10 * time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, docsnare.ETIMEOUT, docsnare.ErrorCode(err))
}

func TestScrape_RateLimiterWaitsOncePerInvocation(t *testing.T) {
	t.Parallel()

	var waits atomic.Int32
	limiter := waiterFunc(func(ctx context.Context, host string) error {
		waits.Add(1)
		assert.Equal(t, "example.com", host)
		return nil
	})

	expanded := false
	session := &mock.Session{
		QueryAllFn: func(context.Context, string) ([]docsnare.ElementHandle, error) {
			if expanded {
				return nil, nil
			}
			return []docsnare.ElementHandle{&mock.Element{
				FingerprintFn: func() string { return "li:0" },
				ClickFn: func() error {
					expanded = true
					return nil
				},
			}}, nil
		},
		LinksFn: func(context.Context) ([]docsnare.LinkRecord, error) { return nil, nil },
	}

	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://example.com/tree": {HTML: "<html></html>", Session: session},
		}),
		Limiter: limiter,
	}

	_, err := s.Scrape(context.Background(), "https://example.com/tree", scrape.Options{
		Strategy:   docsnare.StrategyTree,
		ClickDelay: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), waits.Load(), "limiter waits once, not per click")
}

type waiterFunc func(ctx context.Context, host string) error

func (f waiterFunc) Wait(ctx context.Context, host string) error { return f(ctx, host) }

func TestResolveDocument_ProvisionalToPDF(t *testing.T) {
	t.Parallel()

	landingHTML := `<div class="w3eden"><a href="?wpdmdl=42">Download</a></div>`
	pdfData := []byte("%PDF-1.7 fake")

	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://x/download/doc/": {
				FinalURL: "https://x/download/doc/",
				HTML:     landingHTML,
			},
			"https://x/download/doc/?wpdmdl=42": {
				Download: &docsnare.Download{Filename: "doc.pdf", ContentType: "application/pdf", Data: pdfData},
			},
		}),
		Resolver: &mock.Resolver{
			ResolveFn: func(url, html string) (*docsnare.Resolution, error) {
				if strings.Contains(url, "wpdmdl=") {
					return &docsnare.Resolution{URL: url}, nil
				}
				return &docsnare.Resolution{
					URL:         url + "?wpdmdl=42",
					Provisional: true,
					Pattern:     docsnare.PatternWordPressDownload,
				}, nil
			},
		},
		PDF: &mock.PDFExtractor{
			IsPDFFn:       func(data []byte) bool { return strings.HasPrefix(string(data), "%PDF-") },
			ExtractTextFn: func([]byte) (string, error) { return "annual report", nil },
		},
	}

	result, err := s.ResolveDocument(context.Background(), "https://x/download/doc/", scrape.Options{})
	require.NoError(t, err)

	assert.Equal(t, "https://x/download/doc/?wpdmdl=42", result.URL)
	assert.True(t, result.IsPDF)
	assert.True(t, result.Complete)
	assert.Equal(t, docsnare.PatternWordPressDownload, result.Pattern)
	assert.Equal(t, pdfData, result.FileBytes)
	assert.Equal(t, "annual report", result.Text)
}

func TestResolveDocument_CandidateServesHTML(t *testing.T) {
	t.Parallel()

	// The tracking-page ambiguity: the candidate URL also returns HTML, so
	// the provisional result is finalized as a non-PDF document.
	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://x/download/doc/":      {HTML: `<div class="w3eden"><a href="?id=9">dl</a></div>`},
			"https://x/download/doc/?id=9": {HTML: "<article><p>inline document</p></article>"},
		}),
		Resolver: &mock.Resolver{
			ResolveFn: func(url, html string) (*docsnare.Resolution, error) {
				if strings.Contains(url, "id=") {
					return &docsnare.Resolution{URL: url}, nil
				}
				return &docsnare.Resolution{URL: url + "?id=9", Provisional: true, Pattern: docsnare.PatternWordPressDownload}, nil
			},
		},
		Content: &mock.Extractor{
			ExtractFn: func(html string) (*docsnare.ExtractResult, error) {
				return &docsnare.ExtractResult{Title: "doc", ContentHTML: html}, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(string) (string, error) { return "inline document", nil },
		},
	}

	result, err := s.ResolveDocument(context.Background(), "https://x/download/doc/", scrape.Options{})
	require.NoError(t, err)

	assert.Equal(t, "https://x/download/doc/?id=9", result.URL)
	assert.False(t, result.IsPDF)
	assert.True(t, result.Complete)
	assert.Equal(t, "inline document", result.Text)
	assert.Empty(t, result.FileBytes)
}

func TestResolveDocument_NoMatchRendersText(t *testing.T) {
	t.Parallel()

	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://example.com/page": {HTML: "<article>plain page</article>"},
		}),
		Resolver: &mock.Resolver{
			ResolveFn: func(url, _ string) (*docsnare.Resolution, error) {
				return &docsnare.Resolution{URL: url}, nil
			},
		},
		Content: &mock.Extractor{
			ExtractFn: func(html string) (*docsnare.ExtractResult, error) {
				return &docsnare.ExtractResult{ContentHTML: html}, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(string) (string, error) { return "plain page", nil },
		},
	}

	result, err := s.ResolveDocument(context.Background(), "https://example.com/page", scrape.Options{})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/page", result.URL)
	assert.False(t, result.IsPDF)
	assert.Equal(t, docsnare.PatternNone, result.Pattern)
	assert.Equal(t, "plain page", result.Text)
}

func TestResolveDocument_DirectDownload(t *testing.T) {
	t.Parallel()

	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://example.com/report.pdf": {
				Download: &docsnare.Download{ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
			},
		}),
		PDF: &mock.PDFExtractor{
			IsPDFFn:       func(data []byte) bool { return strings.HasPrefix(string(data), "%PDF-") },
			ExtractTextFn: func([]byte) (string, error) { return "", docsnare.Errorf(docsnare.EINTERNAL, "no text") },
		},
	}

	result, err := s.ResolveDocument(context.Background(), "https://example.com/report.pdf", scrape.Options{})
	require.NoError(t, err)

	assert.True(t, result.IsPDF)
	assert.Empty(t, result.Text)
	assert.NotEmpty(t, result.FileBytes)
}

func TestResolveDocument_CachedSeparatelyFromScrape(t *testing.T) {
	t.Parallel()

	cache := mock.NewMemoryCache()
	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://example.com/x": {HTML: "<html></html>"},
		}),
		Cache: cache,
	}

	opts := scrape.Options{CacheTTL: time.Minute}
	_, err := s.Scrape(context.Background(), "https://example.com/x", opts)
	require.NoError(t, err)
	_, err = s.ResolveDocument(context.Background(), "https://example.com/x", opts)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len(), "scrape and resolve results must not share keys")
}

func TestScrapeAll_PreservesOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	s := &scrape.Scraper{
		Fetcher: staticFetcher(map[string]*docsnare.FetchResult{
			"https://example.com/a": {HTML: "<html>a</html>"},
			"https://example.com/c": {HTML: "<html>c</html>"},
		}),
		Concurrency: 2,
	}

	urls := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	results := s.ScrapeAll(context.Background(), urls, scrape.Options{})

	require.Len(t, results, 3)
	assert.Equal(t, urls[0], results[0].URL)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, docsnare.EUNAVAILABLE, docsnare.ErrorCode(results[1].Err))
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "<html>c</html>", results[2].Result.Content)
}
