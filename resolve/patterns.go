package resolve

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"docsnare"
)

// defaultPatterns returns the built-in pattern table in priority order.
// Note that hrefs and meta content read through goquery arrive with HTML
// entities already decoded by the parser.
func defaultPatterns() []Pattern {
	return []Pattern{
		wordpressDownload(),
		metaRefresh(),
		citationPDF(),
	}
}

// wordpressDownload matches WordPress Download Manager landing pages: a
// /download/ URL whose HTML carries wpdm markup. The real file sits behind a
// link with a wpdmdl (or bare id) query parameter; the tracking page itself
// renders HTML, so the result stays provisional until the candidate's
// content is confirmed.
func wordpressDownload() Pattern {
	markers := []string{"wpdmdl", "id"}
	return Pattern{
		Name:    docsnare.PatternWordPressDownload,
		Markers: markers,
		URLMatch: func(u *url.URL) bool {
			return strings.Contains(u.Path, "/download/")
		},
		HTMLMatch: func(doc *goquery.Document) bool {
			return doc.Find(`[class*="wpdm"], .w3eden, a[href*="wpdmdl="]`).Length() > 0
		},
		Extract: func(u *url.URL, doc *goquery.Document) string {
			var candidate string
			doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				href, _ := sel.Attr("href")
				ref, err := url.Parse(strings.TrimSpace(href))
				if err != nil {
					return true
				}
				resolved := u.ResolveReference(ref)
				if resolved.Host != u.Host {
					return true
				}
				q := resolved.Query()
				for _, marker := range markers {
					if q.Has(marker) {
						candidate = resolved.String()
						return false
					}
				}
				return true
			})
			return candidate
		},
	}
}

// metaRefresh matches pages that relocate via <meta http-equiv="refresh">.
// These never emit a marker parameter; the guard against self-referential
// targets lives in the resolver (candidate equal to input is no match).
func metaRefresh() Pattern {
	return Pattern{
		Name: docsnare.PatternMetaRefresh,
		HTMLMatch: func(doc *goquery.Document) bool {
			return refreshTarget(doc) != ""
		},
		Extract: func(u *url.URL, doc *goquery.Document) string {
			target := refreshTarget(doc)
			if target == "" {
				return ""
			}
			ref, err := url.Parse(target)
			if err != nil {
				return ""
			}
			return u.ResolveReference(ref).String()
		},
	}
}

// citationPDF matches scholarly landing pages exposing the document location
// through a citation_pdf_url meta tag.
func citationPDF() Pattern {
	return Pattern{
		Name: docsnare.PatternCitationPDF,
		URLMatch: func(u *url.URL) bool {
			// A URL already pointing at a PDF is not a landing page.
			return !strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
		},
		HTMLMatch: func(doc *goquery.Document) bool {
			return citationPDFTarget(doc) != ""
		},
		Extract: func(u *url.URL, doc *goquery.Document) string {
			target := citationPDFTarget(doc)
			if target == "" {
				return ""
			}
			ref, err := url.Parse(target)
			if err != nil {
				return ""
			}
			return u.ResolveReference(ref).String()
		},
	}
}

// refreshTarget returns the url= target of the first usable
// <meta http-equiv="refresh"> tag, or "".
func refreshTarget(doc *goquery.Document) string {
	var target string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.EqualFold(sel.AttrOr("http-equiv", ""), "refresh") {
			return true
		}
		content := sel.AttrOr("content", "")
		idx := strings.Index(strings.ToLower(content), "url=")
		if idx == -1 {
			return true
		}
		target = strings.Trim(strings.TrimSpace(content[idx+len("url="):]), `'"`)
		return target == ""
	})
	return target
}

// citationPDFTarget returns the content of the citation_pdf_url meta tag, or "".
func citationPDFTarget(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(`meta[name="citation_pdf_url"]`).AttrOr("content", ""))
}
