package jobharvest

import (
	"context"
	"time"
)

// LoadState names a document load milestone that can be waited for.
type LoadState string

// Load states.
const (
	LoadDOMReady    LoadState = "dom-ready"    // DOM parsed, subresources may be pending
	LoadNetworkIdle LoadState = "network-idle" // no network activity for a settle window
)

// Element is a handle to a matched DOM node.
type Element interface {
	// Text returns the rendered text content of the element.
	Text(ctx context.Context) (string, error)

	// HTML returns the outer HTML of the element.
	HTML(ctx context.Context) (string, error)

	// Attribute returns the value of the named attribute, or an empty
	// string if the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)
}

// Document is a queryable browsing context: the main document or the nested
// document of a resolved frame.
type Document interface {
	// WaitLoadState blocks until the document reaches the load state or the
	// timeout elapses. It reports whether the state was reached and never
	// fails on timeout: readiness waits are best-effort by contract.
	WaitLoadState(ctx context.Context, state LoadState, timeout time.Duration) bool

	// QuerySelector waits up to timeout for the selector to match. A miss
	// is a normal outcome: it returns (nil, nil). An error indicates the
	// automation driver itself failed.
	QuerySelector(ctx context.Context, selector string, timeout time.Duration) (Element, error)
}

// Page is the top-level document of a browser tab plus page-level
// interaction. A Page is owned by the task processing it and is never
// shared across concurrent extractions.
type Page interface {
	Document

	// Navigate opens the URL and returns once navigation commits.
	Navigate(ctx context.Context, url string) error

	// Frame waits up to timeout for an iframe matching the selector and
	// resolves its nested document. Returns ENOTFOUND if no such frame
	// exists or its content document cannot be resolved.
	Frame(ctx context.Context, selector string, timeout time.Duration) (Document, error)

	// Eval executes a short synthetic script in the page, e.g. a scroll or
	// a dispatched event.
	Eval(ctx context.Context, script string) error

	// MoveMouse moves the pointer to page coordinates, for triggering
	// interaction-deferred scripts.
	MoveMouse(ctx context.Context, x, y float64) error

	// Close releases the tab.
	Close() error
}

// Browser creates pages. Implementations drive an external browser
// automation capability; the pipeline never renders anything itself.
type Browser interface {
	// NewPage opens a fresh tab.
	NewPage(ctx context.Context) (Page, error)

	// Close releases browser resources.
	Close() error
}
