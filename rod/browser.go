// Package rod drives headless Chrome through go-rod, implementing the
// browser automation contract used by the extraction engine.
package rod

import (
	"context"

	"github.com/fwojciec/jobharvest"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements jobharvest.Browser at compile time.
var _ jobharvest.Browser = (*Browser)(nil)

// Browser creates pages from a managed headless Chrome instance. The
// underlying browser is recycled periodically because Chrome accumulates
// memory across long extraction runs.
//
// Browser is safe for concurrent use by multiple goroutines.
type Browser struct {
	manager *BrowserManager
}

// NewBrowser launches a managed headless Chrome browser. Close must be
// called when the Browser is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewBrowser(opts ...ManagerOption) (*Browser, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Browser{manager: manager}, nil
}

// NewPage opens a fresh tab.
func (b *Browser) NewPage(ctx context.Context) (jobharvest.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := b.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, jobharvest.WrapErr(err, jobharvest.ECONNECTION, "opening browser page")
	}

	return &page{page: p, manager: b.manager}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (b *Browser) Close() error {
	return b.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher. It exists for
// testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}
