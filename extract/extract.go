// Package extract implements the multi-strategy DOM extraction engine. A
// strategy establishes the correct browsing context (main document vs.
// nested frame), waits for content readiness under strategy-specific
// heuristics, and extracts elements with frame-to-document fallback.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobharvest"
)

// Timeouts holds the bounded waits and settle delays the strategies use.
// They are policy constants, not correctness guarantees: every wait is
// best-effort and extraction proceeds with whatever content is present.
type Timeouts struct {
	DOMReady         time.Duration // wait for dom-ready load state
	NetworkIdle      time.Duration // wait for network-idle load state
	EmbeddedFrame    time.Duration // wait for the known third-party board iframe
	GenericFrame     time.Duration // wait for any iframe on the page
	FrameSettle      time.Duration // script execution delay inside a frame
	Bootstrap        time.Duration // client-side framework bootstrap delay
	MarkerProbe      time.Duration // window to detect framework markers or rendered text
	RenderSettle     time.Duration // final render delay for client-rendered pages
	HydrationSettle  time.Duration // hydration delay after network idle
	Selector         time.Duration // selector existence wait, default strategies
	SelectorPatient  time.Duration // selector existence wait, patient strategies
	EmbeddedFallback time.Duration // main-document retry after an embedded-board frame miss
	GenericFallback  time.Duration // main-document retry after a generic-iframe frame miss
}

// DefaultTimeouts returns the standard timeout policy.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		DOMReady:         30 * time.Second,
		NetworkIdle:      15 * time.Second,
		EmbeddedFrame:    5 * time.Second,
		GenericFrame:     10 * time.Second,
		FrameSettle:      1 * time.Second,
		Bootstrap:        2 * time.Second,
		MarkerProbe:      10 * time.Second,
		RenderSettle:     3 * time.Second,
		HydrationSettle:  2 * time.Second,
		Selector:         5 * time.Second,
		SelectorPatient:  10 * time.Second,
		EmbeddedFallback: 2 * time.Second,
		GenericFallback:  5 * time.Second,
	}
}

// ParseContext bundles the active document (and optionally a nested frame)
// plus the strategy kind in effect. It is owned exclusively by the task
// processing one page, produced by a strategy's setup step and discarded at
// end of task.
type ParseContext struct {
	Page  jobharvest.Page
	Frame jobharvest.Document // nil when operating on the main document
	Kind  jobharvest.StrategyKind
}

// Active returns the document extraction operates against: the resolved
// frame if present, else the main document.
func (c *ParseContext) Active() jobharvest.Document {
	if c.Frame != nil {
		return c.Frame
	}
	return c.Page
}

// Source names the active document for ElementResult.Context.
func (c *ParseContext) Source() string {
	if c.Frame != nil {
		return jobharvest.ContextIframe
	}
	return jobharvest.ContextMain
}

// Strategy is the three-operation contract every extraction strategy
// implements. Setup never fails: on any frame-resolution problem it falls
// back silently to a main-document context. WaitForContent is best-effort
// and never fails the page load. ExtractElement returns Found=false for a
// miss; an error indicates the automation driver itself failed.
type Strategy interface {
	Kind() jobharvest.StrategyKind
	Setup(ctx context.Context, page jobharvest.Page) *ParseContext
	WaitForContent(ctx context.Context, pc *ParseContext)
	ExtractElement(ctx context.Context, pc *ParseContext, selector string) (jobharvest.ElementResult, error)
}

// Config configures a strategy.
type Config struct {
	Timeouts Timeouts
	Logger   *slog.Logger

	// Sleep implements settle delays. Nil means a real context-aware
	// sleep; tests inject a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (c Config) normalize() Config {
	if c.Timeouts == (Timeouts{}) {
		c.Timeouts = DefaultTimeouts()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Sleep == nil {
		c.Sleep = func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		}
	}
	return c
}

// ForKind constructs the strategy for a kind. Dispatch is an explicit match
// on the closed set; an unknown kind is a validation error.
func ForKind(kind jobharvest.StrategyKind, cfg Config) (Strategy, error) {
	cfg = cfg.normalize()
	switch kind {
	case jobharvest.KindDefault:
		return &defaultStrategy{cfg: cfg}, nil
	case jobharvest.KindEmbeddedBoard:
		return &embeddedBoardStrategy{cfg: cfg}, nil
	case jobharvest.KindClientRendered:
		return &clientRenderedStrategy{cfg: cfg}, nil
	case jobharvest.KindDynamicHydration:
		return &dynamicHydrationStrategy{cfg: cfg}, nil
	case jobharvest.KindGenericIframe:
		return &genericIframeStrategy{cfg: cfg}, nil
	default:
		return nil, jobharvest.Errorf(jobharvest.EINVALID, "unknown strategy kind %q", string(kind))
	}
}
