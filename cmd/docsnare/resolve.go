package main

import (
	"encoding/json"
	"fmt"

	"docsnare"
	"docsnare/fs"
	"docsnare/scrape"
)

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	opts := scrape.Options{
		NoCache:  c.NoCache,
		CacheTTL: c.CacheTTL,
		Timeout:  c.Timeout,
	}

	result, err := deps.Scraper.ResolveDocument(deps.Ctx, c.URL, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsnare.ErrorMessage(err))
		return err
	}

	if c.Save != "" {
		path, err := fs.NewWriter(c.Save).Write(result)
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stderr, "Saved %s\n", path)
	}

	if c.JSON {
		// The raw payload is for --save, not for the terminal.
		trimmed := *result
		trimmed.FileBytes = nil
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(&trimmed)
	}

	fmt.Fprintf(deps.Stdout, "url: %s\n", result.URL)
	if result.Pattern != docsnare.PatternNone {
		fmt.Fprintf(deps.Stdout, "pattern: %s\n", result.Pattern)
	}
	fmt.Fprintf(deps.Stdout, "pdf: %v\n", result.IsPDF)
	if result.Text != "" {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, result.Text)
	}
	return nil
}
