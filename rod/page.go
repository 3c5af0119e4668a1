package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface checks.
var (
	_ jobharvest.Page     = (*page)(nil)
	_ jobharvest.Document = (*document)(nil)
	_ jobharvest.Element  = (*element)(nil)
)

// page adapts a rod page to the jobharvest automation contract. A page is
// owned by a single extraction and is not safe for concurrent use.
type page struct {
	page    *rod.Page
	manager *BrowserManager
}

// Navigate opens the URL and returns once navigation commits.
func (p *page) Navigate(ctx context.Context, url string) error {
	if err := p.page.Context(ctx).Navigate(url); err != nil {
		return jobharvest.WrapErr(err, jobharvest.ECONNECTION, "navigating to %s", url)
	}
	return nil
}

// WaitLoadState blocks until the document reaches the load state or the
// timeout elapses.
func (p *page) WaitLoadState(ctx context.Context, state jobharvest.LoadState, timeout time.Duration) bool {
	return waitLoadState(ctx, p.page, state, timeout)
}

// QuerySelector waits up to timeout for the selector to match.
func (p *page) QuerySelector(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Element, error) {
	return querySelector(ctx, p.page, selector, timeout)
}

// Frame resolves the nested document of an iframe matching the selector.
func (p *page) Frame(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Document, error) {
	el, err := findElement(ctx, p.page, selector, timeout)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "no frame matches %q", selector)
	}

	frame, err := el.Frame()
	if err != nil {
		return nil, jobharvest.WrapErr(err, jobharvest.ENOTFOUND, "resolving frame document for %q", selector)
	}

	return &document{page: frame}, nil
}

// Eval executes a short synthetic script in the page.
func (p *page) Eval(ctx context.Context, script string) error {
	// Rod evaluates js functions rather than bare statements.
	_, err := p.page.Context(ctx).Eval("() => { " + script + " }")
	return err
}

// MoveMouse moves the pointer to page coordinates.
func (p *page) MoveMouse(ctx context.Context, x, y float64) error {
	return p.page.Context(ctx).Mouse.MoveTo(proto.NewPoint(x, y))
}

// Close releases the tab and counts the page toward browser recycling.
func (p *page) Close() error {
	err := p.page.Close()
	p.manager.IncrementPageCount()
	return err
}

// document is a queryable browsing context. Rod represents a resolved frame
// as a page, so the same adapter serves both iframe documents and, through
// page, the main document.
type document struct {
	page *rod.Page
}

func (d *document) WaitLoadState(ctx context.Context, state jobharvest.LoadState, timeout time.Duration) bool {
	return waitLoadState(ctx, d.page, state, timeout)
}

func (d *document) QuerySelector(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Element, error) {
	return querySelector(ctx, d.page, selector, timeout)
}

// element is a handle to a matched DOM node.
type element struct {
	el *rod.Element
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *element) HTML(ctx context.Context) (string, error) {
	return e.el.Context(ctx).HTML()
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// waitLoadState maps the load state contract onto rod waits. Readiness
// waits are best-effort: a timeout reports false, never an error.
//
// LoadDOMReady is satisfied by rod's WaitLoad, which waits for the window
// load event. That is a stricter milestone than DOMContentLoaded, so the
// DOM is always ready when it reports true; the cost is waiting out
// subresources on slow pages, bounded by the caller's timeout.
func waitLoadState(ctx context.Context, p *rod.Page, state jobharvest.LoadState, timeout time.Duration) bool {
	scoped := p.Context(ctx).Timeout(timeout)
	defer scoped.CancelTimeout()

	switch state {
	case jobharvest.LoadNetworkIdle:
		return scoped.WaitIdle(timeout) == nil
	default:
		return scoped.WaitLoad() == nil
	}
}

// querySelector wraps findElement and converts the result to the domain
// element handle.
func querySelector(ctx context.Context, p *rod.Page, selector string, timeout time.Duration) (jobharvest.Element, error) {
	el, err := findElement(ctx, p, selector, timeout)
	if err != nil || el == nil {
		return nil, err
	}
	return &element{el: el}, nil
}

// findElement waits up to timeout for the selector to match. A timeout of
// zero checks the current DOM without waiting. A miss returns (nil, nil);
// an error means the driver itself failed.
func findElement(ctx context.Context, p *rod.Page, selector string, timeout time.Duration) (*rod.Element, error) {
	scoped := p.Context(ctx)
	if timeout > 0 {
		scoped = scoped.Timeout(timeout)
		defer scoped.CancelTimeout()
	} else {
		scoped = scoped.Sleeper(rod.NotFoundSleeper)
	}

	el, err := scoped.Element(selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, &rod.ElementNotFoundError{}) {
			return nil, nil
		}
		return nil, err
	}
	return el, nil
}
