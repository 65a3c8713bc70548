package scrape

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Operation kinds used for cache key namespacing.
const (
	opScrape  = "scrape"
	opResolve = "resolve"
)

// cacheKey derives a deterministic key from the operation kind, the URL and
// every strategy-affecting option. Option combinations that change behavior
// must never collide; NoCache, CacheTTL and Timeout are excluded because
// they do not change the produced result.
func cacheKey(kind, rawURL string, opts Options) string {
	h := xxhash.New()
	writeField(h, kind)
	writeField(h, rawURL)
	writeField(h, string(opts.Strategy))
	writeField(h, strconv.Itoa(opts.MaxIterations))
	writeField(h, opts.ClickDelay.String())
	writeField(h, strconv.Itoa(len(opts.CustomSelectors)))
	for _, sel := range opts.CustomSelectors {
		writeField(h, sel)
	}
	return fmt.Sprintf("docsnare:%s:%016x", kind, h.Sum64())
}

// writeField writes a length-prefixed field so adjacent values can never
// alias each other.
func writeField(h *xxhash.Digest, field string) {
	_, _ = io.WriteString(h, strconv.Itoa(len(field)))
	_, _ = h.Write([]byte{0})
	_, _ = io.WriteString(h, field)
}
