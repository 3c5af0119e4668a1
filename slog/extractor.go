// Package slog provides logging decorators for jobharvest services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobharvest"
)

// Ensure LoggingExtractor implements jobharvest.Extractor.
var _ jobharvest.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with per-page logging.
type LoggingExtractor struct {
	next   jobharvest.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next jobharvest.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractPage logs the page, strategy, and hit count, and delegates to the
// wrapped extractor.
func (e *LoggingExtractor) ExtractPage(ctx context.Context, url string, group jobharvest.SelectorGroup) (results []jobharvest.ElementResult, err error) {
	defer func(begin time.Time) {
		found := 0
		for _, r := range results {
			if r.Found {
				found++
			}
		}
		e.logger.Info("extract",
			"url", url,
			"strategy", string(group.Kind),
			"selectors", len(group.Selectors),
			"found", found,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractPage(ctx, url, group)
}
