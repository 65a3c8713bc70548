package docsnare

// PatternName identifies a landing-page signature family.
type PatternName string

// Known landing-page pattern families.
const (
	PatternNone              PatternName = ""
	PatternWordPressDownload PatternName = "wordpress-download"
	PatternMetaRefresh       PatternName = "meta-refresh"
	PatternCitationPDF       PatternName = "citation-pdf"
)

// Resolution is the outcome of classifying one (url, html) pair against the
// known landing-page patterns.
//
// A Provisional resolution is a candidate URL produced by pattern matching
// that has not yet been confirmed; the caller must fetch the candidate and
// classify its content before treating the result as final. When Pattern is
// PatternNone, URL is the input URL unchanged and Provisional is false.
type Resolution struct {
	URL         string      `json:"url"`
	Provisional bool        `json:"provisional"`
	Pattern     PatternName `json:"pattern,omitempty"`
}

// Resolver classifies landing pages and emits candidate document URLs.
//
// Implementations must be idempotent (same inputs, same Resolution) and must
// never re-resolve a URL that is itself a resolution output: a URL already
// carrying a pattern family's disambiguation marker classifies as no match
// regardless of HTML content.
type Resolver interface {
	Resolve(url, html string) (*Resolution, error)
}
