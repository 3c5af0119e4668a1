package mock

import (
	"context"

	"github.com/fwojciec/jobharvest"
)

var _ jobharvest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of jobharvest.Extractor.
type Extractor struct {
	ExtractPageFn func(ctx context.Context, url string, group jobharvest.SelectorGroup) ([]jobharvest.ElementResult, error)
}

func (e *Extractor) ExtractPage(ctx context.Context, url string, group jobharvest.SelectorGroup) ([]jobharvest.ElementResult, error) {
	return e.ExtractPageFn(ctx, url, group)
}

var _ jobharvest.PostingParser = (*PostingParser)(nil)

// PostingParser is a mock implementation of jobharvest.PostingParser.
type PostingParser struct {
	ParsePostingsFn func(html string, baseURL string) ([]*jobharvest.Job, error)
}

func (p *PostingParser) ParsePostings(html string, baseURL string) ([]*jobharvest.Job, error) {
	return p.ParsePostingsFn(html, baseURL)
}

var _ jobharvest.DetailParser = (*DetailParser)(nil)

// DetailParser is a mock implementation of jobharvest.DetailParser.
type DetailParser struct {
	ParseDetailFn func(html string) (string, []string, error)
}

func (p *DetailParser) ParseDetail(html string) (string, []string, error) {
	return p.ParseDetailFn(html)
}

var _ jobharvest.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of jobharvest.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
