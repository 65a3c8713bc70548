// Package readability implements docsnare.Extractor using go-readability.
// It is an alternative to the trafilatura extractor for pages where
// Mozilla's readability heuristics do better, such as article-style content.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"

	"docsnare"
)

// Ensure Extractor implements docsnare.Extractor at compile time.
var _ docsnare.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docsnare.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docsnare.Errorf(docsnare.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docsnare.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
