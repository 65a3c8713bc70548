// Package trafilatura implements docsnare.Extractor on top of
// go-trafilatura. It is the default content extractor: resolved HTML
// documents pass through it before Markdown conversion.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"docsnare"
)

// Ensure Extractor implements docsnare.Extractor at compile time.
var _ docsnare.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to strip boilerplate from HTML pages.
// Trafilatura's built-in fallback chain (readability, dom-distiller) is
// enabled so pages with unusual markup still yield content.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract processes raw HTML and returns the main content with navigation,
// sidebars and footers removed.
func (e *Extractor) Extract(rawHTML string) (*docsnare.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docsnare.Errorf(docsnare.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &docsnare.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node back to markup.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
