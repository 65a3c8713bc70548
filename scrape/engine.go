// Package scrape provides content discovery orchestration: the iterative
// hierarchical expansion engine for interactive pages, and the scraper that
// composes fetching, expansion, landing-page resolution and caching.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"docsnare"
)

// Engine defaults.
const (
	DefaultMaxIterations = 10
	DefaultClickDelay    = 500 * time.Millisecond
)

// DefaultSelectors returns the built-in expandable-element selectors in
// priority order, most structurally specific first. Generic ARIA selectors
// come last since they risk matching navigation menus rather than content
// trees.
func DefaultSelectors() []string {
	return []string{
		`.jstree-closed > a.jstree-anchor`,
		`li.directory.collapsed > a`,
		`details:not([open]) > summary`,
		`.accordion-header:not(.active), .accordion-toggle.collapsed, [data-toggle="collapse"].collapsed`,
		`button[aria-expanded="false"], [role="button"][aria-expanded="false"]`,
	}
}

// Engine reveals links nested behind expandable UI elements (accordions,
// directory trees) by driving an interactive session through bounded rounds
// of "find expandable elements, click unclicked ones, re-extract links".
// Termination is guaranteed by the iteration bound regardless of page
// structure.
type Engine struct {
	// MaxIterations bounds the outer loop. Defaults to DefaultMaxIterations.
	MaxIterations int

	// ClickDelay is the settle time after each click before re-extraction.
	// Defaults to DefaultClickDelay.
	ClickDelay time.Duration

	// Selectors override DefaultSelectors when non-nil, highest priority
	// first.
	Selectors []string

	// Logger receives per-click debug events. Nil disables logging.
	Logger *slog.Logger
}

// Expansion is the outcome of one engine run.
type Expansion struct {
	// Links is the merged set discovered across all iterations,
	// first-wins on href collision.
	Links *docsnare.LinkSet

	// Interactions is the number of successful clicks.
	Interactions int

	// Iterations is the number of outer-loop rounds executed.
	Iterations int

	// Confidence is ConfidenceExpanded when structure was found and
	// expanded, ConfidenceFlat otherwise.
	Confidence float64
}

// expansionState is owned exclusively by one Run call and never shared.
type expansionState struct {
	links       *docsnare.LinkSet
	clicked     map[string]bool
	interaction int
	emptyPasses int
}

// Run expands the page behind session until no discoverable structure
// remains (two consecutive passes without a click) or MaxIterations is
// reached. Each iteration re-extracts links, scans selectors in priority
// order and clicks at most one new visible element; after a click the next
// iteration restarts discovery from the highest-priority selector, since a
// click can reveal new instances of higher-priority elements. This is how
// the engine reaches hierarchical depth without recursion.
//
// Click failures are absorbed (the element is skipped); session-level
// failures abort the run. On error the partial link set is discarded.
func (e *Engine) Run(ctx context.Context, session docsnare.InteractiveSession) (*Expansion, error) {
	maxIterations := e.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	delay := e.ClickDelay
	if delay <= 0 {
		delay = DefaultClickDelay
	}
	selectors := e.Selectors
	if len(selectors) == 0 {
		selectors = DefaultSelectors()
	}

	state := &expansionState{
		links:   docsnare.NewLinkSet(),
		clicked: make(map[string]bool),
	}

	iterations := 0
	for iteration := 0; iteration < maxIterations; iteration++ {
		iterations++

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		links, err := session.Links(ctx)
		if err != nil {
			return nil, err
		}
		state.links.Merge(links)

		clicked, err := e.clickNext(ctx, session, selectors, delay, state)
		if err != nil {
			return nil, err
		}

		if clicked {
			state.emptyPasses = 0
			continue
		}
		state.emptyPasses++
		if state.emptyPasses >= 2 {
			break
		}
	}

	confidence := docsnare.ConfidenceFlat
	if state.interaction > 0 {
		confidence = docsnare.ConfidenceExpanded
	}

	return &Expansion{
		Links:        state.links,
		Interactions: state.interaction,
		Iterations:   iterations,
		Confidence:   confidence,
	}, nil
}

// clickNext performs one pass over the selectors and clicks the first new
// visible element it finds. It reports whether a click happened.
func (e *Engine) clickNext(ctx context.Context, session docsnare.InteractiveSession, selectors []string, delay time.Duration, state *expansionState) (bool, error) {
	for _, selector := range selectors {
		elements, err := session.QueryAll(ctx, selector)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			// A selector the page rejects is skipped, not fatal.
			continue
		}

		for _, el := range elements {
			// Identity combines the structural fingerprint with the
			// selector that matched it, so the same physical element
			// is never clicked twice.
			id := el.Fingerprint() + "|" + selector
			if state.clicked[id] {
				continue
			}

			visible, err := el.Visible()
			if err != nil || !visible {
				continue
			}

			if err := el.Click(); err != nil {
				// Not clickable right now; skip and keep scanning.
				if e.Logger != nil {
					e.Logger.Debug("click failed", "selector", selector, "err", err)
				}
				continue
			}

			state.clicked[id] = true
			state.interaction++
			if e.Logger != nil {
				e.Logger.Debug("clicked expandable element", "selector", selector, "fingerprint", el.Fingerprint())
			}

			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(delay):
			}

			if links, err := session.Links(ctx); err == nil {
				state.links.Merge(links)
			}
			return true, nil
		}
	}

	return false, nil
}
