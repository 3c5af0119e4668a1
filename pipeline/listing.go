package pipeline

import (
	"context"
	"log/slog"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/bloom"
	"github.com/fwojciec/jobharvest/resilience"
)

// ListingStage extracts job-board elements from each enabled company's
// career page, parses them into postings, and stages the postings by
// signature. Re-running the stage is safe: the staging upsert is
// signature-keyed and the bloom filter skips postings already staged this
// run.
type ListingStage struct {
	Extractor jobharvest.Extractor
	Parser    jobharvest.PostingParser
	Jobs      jobharvest.JobService
	Limiter   jobharvest.DomainLimiter
	Storage   *resilience.Policy
	Seen      *bloom.Filter
	Runner    Runner
	Logger    *slog.Logger
}

// Run harvests listings for every enabled company. Disabled companies are
// skipped before any work is dispatched. Each successful item reports the
// number of postings staged.
func (s *ListingStage) Run(ctx context.Context, companies []*jobharvest.Company) (jobharvest.StageSummary, map[string]jobharvest.TaskResult[int]) {
	enabled := make([]*jobharvest.Company, 0, len(companies))
	for _, company := range companies {
		if company.Enabled {
			enabled = append(enabled, company)
		}
	}

	results := Run(ctx, s.runner(), enabled,
		func(c *jobharvest.Company) string { return c.Name },
		s.harvest,
	)
	return summarize(jobharvest.StageListings, results), results
}

func (s *ListingStage) runner() Runner {
	r := s.Runner
	if r.Logger == nil {
		r.Logger = s.logger()
	}
	return r
}

func (s *ListingStage) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// harvest processes one company: navigate, extract, parse, stage.
func (s *ListingStage) harvest(ctx context.Context, company *jobharvest.Company) (int, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, domainOf(company.CareerURL)); err != nil {
			return 0, err
		}
	}

	elements, err := s.Extractor.ExtractPage(ctx, company.CareerURL, company.Selectors.JobBoard)
	if err != nil {
		return 0, err
	}

	// Different selectors can match overlapping board fragments; the
	// signature map keeps each posting once.
	postings := make(map[string]*jobharvest.Job)
	for _, element := range elements {
		if !element.Found {
			continue
		}
		jobs, err := s.Parser.ParsePostings(element.HTML, company.CareerURL)
		if err != nil {
			s.logger().Warn("unparseable board element",
				"company", company.Name,
				"selector", element.Selector,
				"err", err,
			)
			continue
		}
		for _, job := range jobs {
			job.CompanyName = company.Name
			job.Signature = jobharvest.Signature(company.Name, job.Title, job.URL)
			postings[job.Signature] = job
		}
	}

	staged := make([]string, 0, len(postings))
	for signature, job := range postings {
		if s.Seen != nil && s.Seen.SeenOrAdd(signature) {
			continue
		}
		if err := job.Validate(); err != nil {
			s.logger().Warn("skipping invalid posting",
				"company", company.Name,
				"title", job.Title,
				"err", err,
			)
			continue
		}
		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.SaveJob(ctx, job)
		}); err != nil {
			return 0, err
		}
		staged = append(staged, signature)
	}

	if len(staged) > 0 {
		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.MarkStageCompleted(ctx, staged, jobharvest.StageListings)
		}); err != nil {
			return 0, err
		}
	}

	s.logger().Info("listings staged",
		"company", company.Name,
		"found", len(postings),
		"staged", len(staged),
	)
	return len(staged), nil
}
