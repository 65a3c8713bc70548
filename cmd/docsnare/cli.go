package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"docsnare/scrape"
)

// Dependencies holds services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Scraper *scrape.Scraper
	Logger  *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Scrape  ScrapeCmd  `cmd:"" help:"Discover links on a page, expanding collapsed structure"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a landing page to its concrete document"`

	CacheBackend string  `name:"cache-backend" enum:"badger,sqlite" default:"badger" help:"Cache storage backend"`
	CachePath    string  `name:"cache-path" help:"Cache location (default ~/.docsnare)"`
	Extractor    string  `name:"extractor" enum:"trafilatura,readability" default:"trafilatura" help:"Main-content extraction engine"`
	Rate         float64 `name:"rate" default:"1.0" help:"Requests per second per host"`
	Static       bool    `name:"static" help:"Use plain HTTP instead of a browser"`
	Verbose      bool    `short:"v" help:"Enable debug logging"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs []string `arg:"" name:"url" help:"Page URLs to scrape"`

	Strategy      string        `default:"basic" enum:"basic,tree" help:"Scrape strategy"`
	MaxIterations int           `name:"max-iterations" default:"10" help:"Expansion iteration bound (tree strategy)"`
	ClickDelay    time.Duration `name:"click-delay" default:"500ms" help:"Post-click settle delay (tree strategy)"`
	Selector      []string      `short:"s" help:"Custom expandable-element selector (repeatable, highest priority first)"`
	NoCache       bool          `name:"no-cache" help:"Bypass cache reads and writes"`
	CacheTTL      time.Duration `name:"cache-ttl" default:"24h" help:"Cache entry lifetime (0 disables writes)"`
	Timeout       time.Duration `default:"2m" help:"Per-URL operation timeout"`
	Concurrency   int           `short:"c" default:"4" help:"Concurrent scrape limit for multiple URLs"`
	JSON          bool          `name:"json" help:"Emit full results as JSON"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	URL string `arg:"" help:"Landing page or document URL"`

	Save     string        `short:"o" name:"save" placeholder:"DIR" help:"Save the resolved document under this directory"`
	NoCache  bool          `name:"no-cache" help:"Bypass cache reads and writes"`
	CacheTTL time.Duration `name:"cache-ttl" default:"24h" help:"Cache entry lifetime (0 disables writes)"`
	Timeout  time.Duration `default:"2m" help:"Operation timeout"`
	JSON     bool          `name:"json" help:"Emit the full result as JSON"`
}
