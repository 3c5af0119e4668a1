package mock

import (
	"context"
	"time"

	"github.com/fwojciec/jobharvest"
)

var _ jobharvest.Browser = (*Browser)(nil)

// Browser is a mock implementation of jobharvest.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context) (jobharvest.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context) (jobharvest.Page, error) {
	return b.NewPageFn(ctx)
}

func (b *Browser) Close() error {
	if b.CloseFn == nil {
		return nil
	}
	return b.CloseFn()
}

var _ jobharvest.Page = (*Page)(nil)

// Page is a mock implementation of jobharvest.Page.
type Page struct {
	NavigateFn      func(ctx context.Context, url string) error
	WaitLoadStateFn func(ctx context.Context, state jobharvest.LoadState, timeout time.Duration) bool
	QuerySelectorFn func(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Element, error)
	FrameFn         func(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Document, error)
	EvalFn          func(ctx context.Context, script string) error
	MoveMouseFn     func(ctx context.Context, x, y float64) error
	CloseFn         func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.NavigateFn == nil {
		return nil
	}
	return p.NavigateFn(ctx, url)
}

func (p *Page) WaitLoadState(ctx context.Context, state jobharvest.LoadState, timeout time.Duration) bool {
	if p.WaitLoadStateFn == nil {
		return true
	}
	return p.WaitLoadStateFn(ctx, state, timeout)
}

func (p *Page) QuerySelector(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Element, error) {
	return p.QuerySelectorFn(ctx, selector, timeout)
}

func (p *Page) Frame(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Document, error) {
	if p.FrameFn == nil {
		return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "no frame matching %q", selector)
	}
	return p.FrameFn(ctx, selector, timeout)
}

func (p *Page) Eval(ctx context.Context, script string) error {
	if p.EvalFn == nil {
		return nil
	}
	return p.EvalFn(ctx, script)
}

func (p *Page) MoveMouse(ctx context.Context, x, y float64) error {
	if p.MoveMouseFn == nil {
		return nil
	}
	return p.MoveMouseFn(ctx, x, y)
}

func (p *Page) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

var _ jobharvest.Document = (*Document)(nil)

// Document is a mock implementation of jobharvest.Document.
type Document struct {
	WaitLoadStateFn func(ctx context.Context, state jobharvest.LoadState, timeout time.Duration) bool
	QuerySelectorFn func(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Element, error)
}

func (d *Document) WaitLoadState(ctx context.Context, state jobharvest.LoadState, timeout time.Duration) bool {
	if d.WaitLoadStateFn == nil {
		return true
	}
	return d.WaitLoadStateFn(ctx, state, timeout)
}

func (d *Document) QuerySelector(ctx context.Context, selector string, timeout time.Duration) (jobharvest.Element, error) {
	return d.QuerySelectorFn(ctx, selector, timeout)
}

var _ jobharvest.Element = (*Element)(nil)

// Element is a mock implementation of jobharvest.Element.
type Element struct {
	TextFn      func(ctx context.Context) (string, error)
	HTMLFn      func(ctx context.Context) (string, error)
	AttributeFn func(ctx context.Context, name string) (string, error)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if e.TextFn == nil {
		return "", nil
	}
	return e.TextFn(ctx)
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	if e.HTMLFn == nil {
		return "", nil
	}
	return e.HTMLFn(ctx)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if e.AttributeFn == nil {
		return "", nil
	}
	return e.AttributeFn(ctx, name)
}

// StaticElement returns an Element with fixed text and HTML content.
func StaticElement(text, html string) *Element {
	return &Element{
		TextFn: func(context.Context) (string, error) { return text, nil },
		HTMLFn: func(context.Context) (string, error) { return html, nil },
	}
}
