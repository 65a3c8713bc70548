package docsnare

import "time"

// Strategy selects how a page is scraped.
type Strategy string

// Supported scrape strategies.
const (
	// StrategyBasic performs a single fetch and static link extraction.
	StrategyBasic Strategy = "basic"

	// StrategyTree drives an interactive session through bounded rounds
	// of expansion to reveal links nested behind expandable UI elements.
	StrategyTree Strategy = "tree"
)

// Confidence levels reported by a scrape. The score is a two-value heuristic:
// high when expandable structure was found and expanded, low when none was
// detected (the result may be incomplete because the wrong strategy was
// chosen, not because the page has no hidden content).
const (
	ConfidenceExpanded = 0.9
	ConfidenceFlat     = 0.5
)

// Metrics describes how a scrape operation went.
type Metrics struct {
	Duration         time.Duration `json:"duration"`
	LinkCount        int           `json:"linkCount"`
	InteractionCount int           `json:"interactionCount"`
	Complete         bool          `json:"complete"`
}

// ScrapeResult is the outcome of one scrape operation. Links preserve
// discovery order and are deduplicated by href (first occurrence wins).
type ScrapeResult struct {
	URL        string       `json:"url"`
	Content    string       `json:"content"`
	Links      []LinkRecord `json:"links"`
	Strategy   Strategy     `json:"strategy"`
	Metrics    Metrics      `json:"metrics"`
	Confidence float64      `json:"confidence"`
}

// DocumentResult is the outcome of resolving a URL to its concrete document.
// For PDF payloads FileBytes holds the raw file and Text the extracted plain
// text; for HTML documents Text holds the main content as Markdown.
type DocumentResult struct {
	URL       string      `json:"url"`
	IsPDF     bool        `json:"isPdf"`
	Complete  bool        `json:"complete"`
	Strategy  Strategy    `json:"strategy"`
	Pattern   PatternName `json:"pattern,omitempty"`
	Text      string      `json:"text,omitempty"`
	FileBytes []byte      `json:"fileBytes,omitempty"`
}
