package jobharvest

import "context"

// Extractor produces one ElementResult per selector for a page, using the
// rendering strategy the selector group names. Per-selector misses degrade
// to Found=false results; only automation-driver failures surface as errors.
type Extractor interface {
	ExtractPage(ctx context.Context, url string, group SelectorGroup) ([]ElementResult, error)
}

// PostingParser turns an extracted job-board element into individual
// postings. Implementations parse the element's HTML; they never touch the
// network.
type PostingParser interface {
	ParsePostings(html string, baseURL string) ([]*Job, error)
}

// DetailParser extracts the description text and candidate technology
// labels from a job-card element's HTML.
type DetailParser interface {
	ParseDetail(html string) (description string, labels []string, err error)
}
