// Command docsnare discovers and resolves documents on pages that hide their
// content behind expandable navigation or indirect download links.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"docsnare"
	"docsnare/badger"
	"docsnare/htmltomarkdown"
	docshttp "docsnare/http"
	"docsnare/pdf"
	"docsnare/readability"
	"docsnare/resolve"
	"docsnare/rod"
	"docsnare/scrape"
	docslog "docsnare/slog"
	"docsnare/sqlite"
	"docsnare/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Cache path override. Set before calling Run().
	CachePath string

	cache   docsnare.Cache
	manager *rod.BrowserManager
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CachePath: defaultCachePath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.cache != nil {
		err = m.cache.Close()
		m.cache = nil
	}
	if m.manager != nil {
		if cerr := m.manager.Close(); err == nil {
			err = cerr
		}
		m.manager = nil
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsnare"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsnare --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	cache, err := m.openCache(cli)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Use --cache-path to pick a writable location")
		return fmt.Errorf("failed to open cache: %w", err)
	}
	m.cache = cache

	fetcher, err := m.openFetcher(cli)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --static")
		return fmt.Errorf("failed to start fetcher: %w", err)
	}

	deps.Scraper = &scrape.Scraper{
		Fetcher:     docslog.NewLoggingFetcher(fetcher, logger),
		Cache:       docslog.NewLoggingCache(cache, logger),
		Resolver:    docslog.NewLoggingResolver(resolve.New(), logger),
		Limiter:     scrape.NewHostLimiter(cli.Rate),
		Content:     openExtractor(cli),
		Converter:   htmltomarkdown.NewConverter(),
		PDF:         pdf.NewExtractor(),
		Logger:      logger,
		Concurrency: cli.Scrape.Concurrency,
	}

	return kongCtx.Run(deps)
}

// openExtractor picks the main-content extraction engine.
func openExtractor(cli *CLI) docsnare.Extractor {
	if cli.Extractor == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

// openCache opens the configured cache backend.
func (m *Main) openCache(cli *CLI) (docsnare.Cache, error) {
	path := cli.CachePath
	if path == "" {
		path = m.CachePath
	}

	if cli.CacheBackend == "sqlite" {
		cache := sqlite.NewCache(filepath.Join(path, "cache.db"))
		if err := cache.Open(); err != nil {
			return nil, err
		}
		return cache, nil
	}

	return badger.Open(filepath.Join(path, "cache"))
}

// openFetcher starts the browser fetcher, or the plain HTTP one with
// --static. The tree strategy needs a browser; scrape commands check this.
func (m *Main) openFetcher(cli *CLI) (docsnare.Fetcher, error) {
	if cli.Static {
		return docshttp.NewFetcher(), nil
	}

	manager, err := rod.NewBrowserManager()
	if err != nil {
		return nil, err
	}
	m.manager = manager
	return rod.NewFetcher(manager), nil
}

func defaultCachePath() string {
	if path := os.Getenv("DOCSNARE_CACHE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docsnare"
	}
	dir := filepath.Join(home, ".docsnare")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
