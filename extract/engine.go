package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobharvest"
)

// Ensure Engine implements jobharvest.Extractor at compile time.
var _ jobharvest.Extractor = (*Engine)(nil)

// Engine drives a browser to extract elements from career pages. Each
// ExtractPage call opens its own page, so an Engine is safe for concurrent
// use: browsing contexts are never shared across work items.
type Engine struct {
	Browser  jobharvest.Browser
	Logger   *slog.Logger
	Timeouts Timeouts

	// Sleep implements settle delays. Nil means real sleeps; tests inject
	// a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an Engine with default timeouts.
func NewEngine(browser jobharvest.Browser, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		Browser:  browser,
		Logger:   logger,
		Timeouts: DefaultTimeouts(),
	}
}

// ExtractPage navigates to the URL and produces one ElementResult per
// selector in the group, using the group's strategy. The group is validated
// before any network activity. Per-selector misses degrade to Found=false
// results. If the automation driver itself fails mid-extraction, the
// failing selector and every pending selector are converted to
// Context="error" results rather than aborting the request.
func (e *Engine) ExtractPage(ctx context.Context, url string, group jobharvest.SelectorGroup) ([]jobharvest.ElementResult, error) {
	if err := group.Validate(); err != nil {
		return nil, err
	}

	strategy, err := ForKind(group.Kind, Config{
		Timeouts: e.Timeouts,
		Logger:   e.Logger,
		Sleep:    e.Sleep,
	})
	if err != nil {
		return nil, err
	}

	page, err := e.Browser.NewPage(ctx)
	if err != nil {
		return nil, jobharvest.WrapErr(err, jobharvest.ECONNECTION, "opening page for %s", url)
	}
	defer page.Close()

	if err := page.Navigate(ctx, url); err != nil {
		return nil, jobharvest.WrapErr(err, jobharvest.ECONNECTION, "navigating to %s", url)
	}

	pc := strategy.Setup(ctx, page)
	strategy.WaitForContent(ctx, pc)

	results := make([]jobharvest.ElementResult, 0, len(group.Selectors))
	for i, selector := range group.Selectors {
		result, err := strategy.ExtractElement(ctx, pc, selector)
		if err != nil {
			e.Logger.Error("driver failure during extraction",
				"url", url,
				"selector", selector,
				"err", err,
			)
			results = append(results, result)
			for _, pending := range group.Selectors[i+1:] {
				results = append(results, errorResult(pending, err))
			}
			break
		}
		results = append(results, result)
	}

	return results, nil
}
