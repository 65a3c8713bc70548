package docsnare

// LinkRecord is a single anchor found in a document. Href is recorded exactly
// as it appears in the source markup; no normalization or resolution is
// applied. Optional fields are populated only when the corresponding
// attribute is present. A LinkRecord is immutable once created.
type LinkRecord struct {
	Href      string   `json:"href"`
	Text      string   `json:"text"`
	Title     string   `json:"title,omitempty"`
	AriaLabel string   `json:"ariaLabel,omitempty"`
	Rel       string   `json:"rel,omitempty"`
	Target    string   `json:"target,omitempty"`
	Classes   []string `json:"classes,omitempty"`
}

// LinkSet is an insertion-ordered collection of LinkRecords keyed by Href,
// scoped to a single fetch or expansion operation. The first record seen for
// a given href wins; later additions with the same href are dropped without
// touching the existing record's metadata.
//
// LinkSet is not safe for concurrent use; each operation owns its own set.
type LinkSet struct {
	index map[string]int
	links []LinkRecord
}

// NewLinkSet returns an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{index: make(map[string]int)}
}

// Add inserts a record unless its href is already present.
// It reports whether the record was added.
func (s *LinkSet) Add(link LinkRecord) bool {
	if link.Href == "" {
		return false
	}
	if _, ok := s.index[link.Href]; ok {
		return false
	}
	s.index[link.Href] = len(s.links)
	s.links = append(s.links, link)
	return true
}

// Merge adds every record from links, first-wins on href collision.
// It returns the number of records actually added.
func (s *LinkSet) Merge(links []LinkRecord) int {
	var added int
	for _, link := range links {
		if s.Add(link) {
			added++
		}
	}
	return added
}

// Has reports whether a record with the given href is present.
func (s *LinkSet) Has(href string) bool {
	_, ok := s.index[href]
	return ok
}

// Get returns the record stored for href.
func (s *LinkSet) Get(href string) (LinkRecord, bool) {
	idx, ok := s.index[href]
	if !ok {
		return LinkRecord{}, false
	}
	return s.links[idx], true
}

// Len returns the number of records in the set.
func (s *LinkSet) Len() int {
	return len(s.links)
}

// Links returns the records in insertion order. The returned slice is a copy.
func (s *LinkSet) Links() []LinkRecord {
	out := make([]LinkRecord, len(s.links))
	copy(out, s.links)
	return out
}

// LinkExtractor turns raw HTML into a LinkSet. Implementations must be pure:
// no network, no side effects, and deterministic ordering (document order).
type LinkExtractor interface {
	Extract(html string) (*LinkSet, error)
}
