package main

import (
	"encoding/json"
	"fmt"

	"docsnare"
	"docsnare/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	opts := scrape.Options{
		Strategy:        docsnare.Strategy(c.Strategy),
		MaxIterations:   c.MaxIterations,
		ClickDelay:      c.ClickDelay,
		CustomSelectors: c.Selector,
		NoCache:         c.NoCache,
		CacheTTL:        c.CacheTTL,
		Timeout:         c.Timeout,
	}

	if len(c.URLs) == 1 {
		result, err := deps.Scraper.Scrape(deps.Ctx, c.URLs[0], opts)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsnare.ErrorMessage(err))
			return err
		}
		return c.print(deps, result)
	}

	results := deps.Scraper.ScrapeAll(deps.Ctx, c.URLs, opts)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", r.URL, docsnare.ErrorMessage(r.Err))
			continue
		}
		if err := c.print(deps, r.Result); err != nil {
			return err
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all %d URLs failed", failed)
	}

	fmt.Fprintf(deps.Stderr, "Scraped %d of %d URLs\n", len(results)-failed, len(results))
	return nil
}

// print writes one scrape result to stdout.
func (c *ScrapeCmd) print(deps *Dependencies, result *docsnare.ScrapeResult) error {
	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(deps.Stdout, "%s  links=%d interactions=%d confidence=%.1f\n",
		result.URL,
		result.Metrics.LinkCount,
		result.Metrics.InteractionCount,
		result.Confidence,
	)
	for _, link := range result.Links {
		if link.Text != "" {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", link.Href, link.Text)
		} else {
			fmt.Fprintf(deps.Stdout, "  %s\n", link.Href)
		}
	}
	return nil
}
