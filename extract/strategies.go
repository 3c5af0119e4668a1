package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/jobharvest"
)

// embeddedBoardFrameSelector matches the iframe the known third-party board
// renders into.
const embeddedBoardFrameSelector = "#grnhse_iframe"

// clientMarkerSelectors are DOM markers client-side frameworks leave behind
// once they have rendered.
var clientMarkerSelectors = []string{
	"[ng-version]",
	"app-root",
	"[data-reactroot]",
	"#__next",
	"#app",
}

// minRenderedTextLen is the body-text length above which a client-rendered
// page is considered to have produced real content rather than an app shell.
const minRenderedTextLen = 100

// markerPollInterval is how often the marker probe re-checks the page.
const markerPollInterval = 500 * time.Millisecond

// extractFrom queries one selector within a document. A miss degrades to a
// Found=false result; only a driver failure returns an error.
func extractFrom(ctx context.Context, doc jobharvest.Document, selector, source string, timeout time.Duration) (jobharvest.ElementResult, error) {
	el, err := doc.QuerySelector(ctx, selector, timeout)
	if err != nil {
		return errorResult(selector, err), err
	}
	if el == nil {
		return jobharvest.ElementResult{
			Selector: selector,
			Found:    false,
			Context:  jobharvest.ContextError,
			Err:      fmt.Sprintf("selector %q not found in %s within %s", selector, source, timeout),
		}, nil
	}

	text, err := el.Text(ctx)
	if err != nil {
		return errorResult(selector, err), err
	}
	html, err := el.HTML(ctx)
	if err != nil {
		return errorResult(selector, err), err
	}

	return jobharvest.ElementResult{
		Selector: selector,
		Found:    true,
		Context:  source,
		Text:     text,
		HTML:     html,
	}, nil
}

// errorResult converts a driver failure into the uniform result record.
func errorResult(selector string, err error) jobharvest.ElementResult {
	return jobharvest.ElementResult{
		Selector: selector,
		Found:    false,
		Context:  jobharvest.ContextError,
		Err:      err.Error(),
	}
}

// frameFallbackExtract implements the shared extraction rule for
// frame-bearing strategies: try the resolved frame first, then retry the
// same selector against the main document with a shorter timeout before
// declaring not-found. Many boards partially render content outside their
// embedded widget.
func frameFallbackExtract(ctx context.Context, cfg Config, pc *ParseContext, selector string, frameTimeout, fallbackTimeout time.Duration) (jobharvest.ElementResult, error) {
	if pc.Frame == nil {
		return extractFrom(ctx, pc.Page, selector, jobharvest.ContextMain, frameTimeout)
	}

	result, err := extractFrom(ctx, pc.Frame, selector, jobharvest.ContextIframe, frameTimeout)
	if err != nil || result.Found {
		return result, err
	}

	cfg.Logger.Info("selector not found in iframe, trying main document",
		"selector", selector,
	)
	return extractFrom(ctx, pc.Page, selector, jobharvest.ContextMain, fallbackTimeout)
}

// defaultStrategy handles standard server-rendered HTML: main-document
// context, dom-ready wait, short selector timeout.
type defaultStrategy struct {
	cfg Config
}

func (s *defaultStrategy) Kind() jobharvest.StrategyKind { return jobharvest.KindDefault }

func (s *defaultStrategy) Setup(_ context.Context, page jobharvest.Page) *ParseContext {
	return &ParseContext{Page: page, Kind: s.Kind()}
}

func (s *defaultStrategy) WaitForContent(ctx context.Context, pc *ParseContext) {
	if !pc.Page.WaitLoadState(ctx, jobharvest.LoadDOMReady, s.cfg.Timeouts.DOMReady) {
		s.cfg.Logger.Warn("page load timeout, proceeding with available content")
	}
}

func (s *defaultStrategy) ExtractElement(ctx context.Context, pc *ParseContext, selector string) (jobharvest.ElementResult, error) {
	return extractFrom(ctx, pc.Active(), selector, pc.Source(), s.cfg.Timeouts.Selector)
}

// embeddedBoardStrategy handles pages embedding a known third-party job
// board in an iframe. Setup resolves the board's content frame; on any
// failure it falls back silently to the main document.
type embeddedBoardStrategy struct {
	cfg Config
}

func (s *embeddedBoardStrategy) Kind() jobharvest.StrategyKind { return jobharvest.KindEmbeddedBoard }

func (s *embeddedBoardStrategy) Setup(ctx context.Context, page jobharvest.Page) *ParseContext {
	frame, err := page.Frame(ctx, embeddedBoardFrameSelector, s.cfg.Timeouts.EmbeddedFrame)
	if err != nil {
		s.cfg.Logger.Warn("board iframe not resolved, using main document", "err", err)
		return &ParseContext{Page: page, Kind: s.Kind()}
	}
	return &ParseContext{Page: page, Frame: frame, Kind: s.Kind()}
}

func (s *embeddedBoardStrategy) WaitForContent(ctx context.Context, pc *ParseContext) {
	if !pc.Active().WaitLoadState(ctx, jobharvest.LoadDOMReady, s.cfg.Timeouts.DOMReady) {
		s.cfg.Logger.Warn("load state timeout, proceeding with available content")
	}
}

func (s *embeddedBoardStrategy) ExtractElement(ctx context.Context, pc *ParseContext, selector string) (jobharvest.ElementResult, error) {
	return frameFallbackExtract(ctx, s.cfg, pc, selector, s.cfg.Timeouts.Selector, s.cfg.Timeouts.EmbeddedFallback)
}

// clientRenderedStrategy handles single-page applications. Context
// resolution is trivial; the complexity lives in readiness waiting: a
// bootstrap delay, then a bounded probe for framework markers or a minimum
// of rendered body text, then a final render-settle delay.
type clientRenderedStrategy struct {
	cfg Config
}

func (s *clientRenderedStrategy) Kind() jobharvest.StrategyKind { return jobharvest.KindClientRendered }

func (s *clientRenderedStrategy) Setup(_ context.Context, page jobharvest.Page) *ParseContext {
	return &ParseContext{Page: page, Kind: s.Kind()}
}

func (s *clientRenderedStrategy) WaitForContent(ctx context.Context, pc *ParseContext) {
	t := s.cfg.Timeouts

	if !pc.Page.WaitLoadState(ctx, jobharvest.LoadDOMReady, t.DOMReady) {
		s.cfg.Logger.Warn("page load timeout, proceeding with available content")
	}

	if err := s.cfg.Sleep(ctx, t.Bootstrap); err != nil {
		return
	}

	if !s.probeRendered(ctx, pc.Page) {
		s.cfg.Logger.Warn("framework markers not detected, proceeding anyway")
	}

	_ = s.cfg.Sleep(ctx, t.RenderSettle)
}

// probeRendered polls for framework markers or a minimum rendered-text
// length until the probe window closes. Whichever arrives first satisfies
// readiness.
func (s *clientRenderedStrategy) probeRendered(ctx context.Context, page jobharvest.Page) bool {
	deadline := time.Now().Add(s.cfg.Timeouts.MarkerProbe)
	for {
		for _, marker := range clientMarkerSelectors {
			el, err := page.QuerySelector(ctx, marker, 0)
			if err == nil && el != nil {
				return true
			}
		}

		if body, err := page.QuerySelector(ctx, "body", 0); err == nil && body != nil {
			if text, err := body.Text(ctx); err == nil && len(text) > minRenderedTextLen {
				return true
			}
		}

		if time.Now().After(deadline) {
			return false
		}
		if err := s.cfg.Sleep(ctx, markerPollInterval); err != nil {
			return false
		}
	}
}

func (s *clientRenderedStrategy) ExtractElement(ctx context.Context, pc *ParseContext, selector string) (jobharvest.ElementResult, error) {
	return extractFrom(ctx, pc.Active(), selector, pc.Source(), s.cfg.Timeouts.SelectorPatient)
}

// dynamicHydrationStrategy handles pages that defer script execution until
// user interaction. Readiness waiting first simulates minimal interaction,
// then waits for dom-ready and a bounded network idle, then a fixed
// hydration-settle delay.
type dynamicHydrationStrategy struct {
	cfg Config
}

func (s *dynamicHydrationStrategy) Kind() jobharvest.StrategyKind {
	return jobharvest.KindDynamicHydration
}

func (s *dynamicHydrationStrategy) Setup(_ context.Context, page jobharvest.Page) *ParseContext {
	return &ParseContext{Page: page, Kind: s.Kind()}
}

func (s *dynamicHydrationStrategy) WaitForContent(ctx context.Context, pc *ParseContext) {
	t := s.cfg.Timeouts

	s.triggerDeferredScripts(ctx, pc.Page)

	if !pc.Page.WaitLoadState(ctx, jobharvest.LoadDOMReady, t.DOMReady) {
		s.cfg.Logger.Warn("page load timeout, proceeding with available content")
	}
	if !pc.Page.WaitLoadState(ctx, jobharvest.LoadNetworkIdle, t.NetworkIdle) {
		s.cfg.Logger.Debug("network idle timeout, continuing with available content")
	}

	_ = s.cfg.Sleep(ctx, t.HydrationSettle)
}

// triggerDeferredScripts simulates pointer movement, a small
// scroll-and-reverse, and a synthetic hover event. Caching layers that
// defer JavaScript until user interaction load their scripts in response.
// Best-effort: failures are logged and ignored.
func (s *dynamicHydrationStrategy) triggerDeferredScripts(ctx context.Context, page jobharvest.Page) {
	steps := []func() error{
		func() error { return page.MoveMouse(ctx, 100, 100) },
		func() error { return page.MoveMouse(ctx, 200, 200) },
		func() error { return page.Eval(ctx, "window.scrollBy(0, 100)") },
		func() error { return s.cfg.Sleep(ctx, 300*time.Millisecond) },
		func() error { return page.Eval(ctx, "window.scrollBy(0, -100)") },
		func() error {
			return page.Eval(ctx, "document.body.dispatchEvent(new MouseEvent('mouseover', {bubbles: true}))")
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			s.cfg.Logger.Debug("could not simulate user interaction", "err", err)
			return
		}
	}
}

func (s *dynamicHydrationStrategy) ExtractElement(ctx context.Context, pc *ParseContext, selector string) (jobharvest.ElementResult, error) {
	return extractFrom(ctx, pc.Active(), selector, pc.Source(), s.cfg.Timeouts.SelectorPatient)
}

// genericIframeStrategy handles pages embedding content in an arbitrary
// iframe. Setup waits for any iframe on the page and resolves its content
// frame, falling back silently to the main document.
type genericIframeStrategy struct {
	cfg Config
}

func (s *genericIframeStrategy) Kind() jobharvest.StrategyKind { return jobharvest.KindGenericIframe }

func (s *genericIframeStrategy) Setup(ctx context.Context, page jobharvest.Page) *ParseContext {
	frame, err := page.Frame(ctx, "iframe", s.cfg.Timeouts.GenericFrame)
	if err != nil {
		s.cfg.Logger.Warn("no iframe resolved on page, using main document", "err", err)
		return &ParseContext{Page: page, Kind: s.Kind()}
	}
	return &ParseContext{Page: page, Frame: frame, Kind: s.Kind()}
}

func (s *genericIframeStrategy) WaitForContent(ctx context.Context, pc *ParseContext) {
	t := s.cfg.Timeouts

	if !pc.Active().WaitLoadState(ctx, jobharvest.LoadDOMReady, t.DOMReady) {
		s.cfg.Logger.Warn("iframe load timeout, proceeding with available content")
	}

	if pc.Frame != nil {
		if !pc.Frame.WaitLoadState(ctx, jobharvest.LoadNetworkIdle, t.NetworkIdle) {
			s.cfg.Logger.Debug("iframe network idle timeout, continuing with available content")
		}
		// Script execution delay inside the frame.
		_ = s.cfg.Sleep(ctx, t.FrameSettle)
	}
}

func (s *genericIframeStrategy) ExtractElement(ctx context.Context, pc *ParseContext, selector string) (jobharvest.ElementResult, error) {
	return frameFallbackExtract(ctx, s.cfg, pc, selector, s.cfg.Timeouts.SelectorPatient, s.cfg.Timeouts.GenericFallback)
}
