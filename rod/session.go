package rod

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"docsnare"
)

// Ensure interface compliance.
var (
	_ docsnare.InteractiveSession = (*session)(nil)
	_ docsnare.ElementHandle      = (*element)(nil)
)

// fingerprintJS computes a structural identity for an element: its tag name
// and sibling index at every level from the document root down. The path
// survives attribute churn from expansion toggles (class and aria changes)
// while distinguishing repeated widgets.
const fingerprintJS = `() => {
	const parts = [];
	let node = this;
	while (node && node.parentElement) {
		const siblings = node.parentElement.children;
		let index = 0;
		for (let i = 0; i < siblings.length; i++) {
			if (siblings[i] === node) { index = i; break; }
		}
		parts.unshift(node.tagName.toLowerCase() + ":" + index);
		node = node.parentElement;
	}
	return parts.join("/");
}`

// session wraps a live rod page. It owns the page and the fetch's temporary
// download directory, both released by Close.
type session struct {
	page    *rod.Page
	extract docsnare.LinkExtractor
	dir     string
	closed  atomic.Bool
}

func (s *session) QueryAll(ctx context.Context, selector string) ([]docsnare.ElementHandle, error) {
	page := s.page.Context(ctx)

	has, _, err := page.Has(selector)
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "querying %q: %v", selector, err)
	}
	if !has {
		return nil, nil
	}

	els, err := page.Elements(selector)
	if err != nil {
		return nil, docsnare.Errorf(docsnare.EUNAVAILABLE, "querying %q: %v", selector, err)
	}

	handles := make([]docsnare.ElementHandle, 0, len(els))
	for _, el := range els {
		fp, err := fingerprint(el)
		if err != nil {
			continue
		}
		handles = append(handles, &element{el: el, fingerprint: fp})
	}
	return handles, nil
}

func (s *session) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", docsnare.Errorf(docsnare.EUNAVAILABLE, "reading page HTML: %v", err)
	}
	return html, nil
}

func (s *session) Links(ctx context.Context) ([]docsnare.LinkRecord, error) {
	html, err := s.HTML(ctx)
	if err != nil {
		return nil, err
	}
	set, err := s.extract.Extract(html)
	if err != nil {
		return nil, err
	}
	return set.Links(), nil
}

func (s *session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.dir != "" {
		os.RemoveAll(s.dir)
	}
	return s.page.Close()
}

// element is a handle on a DOM node found by QueryAll. The fingerprint is
// computed eagerly at query time so it remains stable even if a click later
// detaches the node.
type element struct {
	el          *rod.Element
	fingerprint string
}

func (e *element) Fingerprint() string {
	return e.fingerprint
}

func (e *element) Visible() (bool, error) {
	return e.el.Visible()
}

func (e *element) Click() error {
	if err := e.el.ScrollIntoView(); err != nil {
		return docsnare.Errorf(docsnare.EUNAVAILABLE, "scrolling to element: %v", err)
	}
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return docsnare.Errorf(docsnare.EUNAVAILABLE, "clicking element: %v", err)
	}
	return nil
}

// fingerprint evaluates the structural path of el in the page.
func fingerprint(el *rod.Element) (string, error) {
	res, err := el.Eval(fingerprintJS)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
