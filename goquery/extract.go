// Package goquery implements HTML link extraction using PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"docsnare"
)

// Ensure Extractor implements docsnare.LinkExtractor at compile time.
var _ docsnare.LinkExtractor = (*Extractor)(nil)

// Extractor extracts anchors from HTML in document order.
// It is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans all anchor-like elements in document order and returns a
// deduplicated LinkSet. Hrefs are recorded exactly as found in the markup;
// elements sharing an href collapse to the first encountered. Optional
// metadata fields are populated only when the attribute is present.
func (e *Extractor) Extract(html string) (*docsnare.LinkSet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EINVALID, "failed to parse HTML: %v", err)
	}

	set := docsnare.NewLinkSet()
	doc.Find("a[href], area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}

		link := docsnare.LinkRecord{
			Href: href,
			Text: strings.TrimSpace(sel.Text()),
		}
		if v, ok := sel.Attr("title"); ok {
			link.Title = v
		}
		if v, ok := sel.Attr("aria-label"); ok {
			link.AriaLabel = v
		}
		if v, ok := sel.Attr("rel"); ok {
			link.Rel = v
		}
		if v, ok := sel.Attr("target"); ok {
			link.Target = v
		}
		if v, ok := sel.Attr("class"); ok {
			if classes := strings.Fields(v); len(classes) > 0 {
				link.Classes = classes
			}
		}

		set.Add(link)
	})

	return set, nil
}

// ExtractLinks is a convenience wrapper returning the records as a slice.
func (e *Extractor) ExtractLinks(html string) ([]docsnare.LinkRecord, error) {
	set, err := e.Extract(html)
	if err != nil {
		return nil, err
	}
	return set.Links(), nil
}
