package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/resilience"
)

// DetailStage visits each staged posting's own page and fills in the
// description and candidate technology labels. Inputs are re-read from
// storage, so a crashed run resumes where it stopped: only jobs with
// listings marked and details unmarked are loaded.
type DetailStage struct {
	Extractor jobharvest.Extractor
	Parser    jobharvest.DetailParser
	Jobs      jobharvest.JobService
	Limiter   jobharvest.DomainLimiter
	Storage   *resilience.Policy
	Runner    Runner
	Logger    *slog.Logger
}

// Run fetches details for every company's staged jobs. Each successful item
// reports the number of jobs completed for that company.
func (s *DetailStage) Run(ctx context.Context, companies []*jobharvest.Company) (jobharvest.StageSummary, map[string]jobharvest.TaskResult[int]) {
	enabled := make([]*jobharvest.Company, 0, len(companies))
	for _, company := range companies {
		if company.Enabled {
			enabled = append(enabled, company)
		}
	}

	results := Run(ctx, s.runner(), enabled,
		func(c *jobharvest.Company) string { return c.Name },
		s.fill,
	)
	return summarize(jobharvest.StageDetails, results), results
}

func (s *DetailStage) runner() Runner {
	r := s.Runner
	if r.Logger == nil {
		r.Logger = s.logger()
	}
	return r
}

func (s *DetailStage) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *DetailStage) fill(ctx context.Context, company *jobharvest.Company) (int, error) {
	var jobs []*jobharvest.Job
	if err := guard(ctx, s.Storage, func(ctx context.Context) error {
		var err error
		jobs, err = s.Jobs.FindJobsForStage(ctx, company.Name, jobharvest.StageDetails)
		return err
	}); err != nil {
		return 0, err
	}

	completed := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx, domainOf(job.URL)); err != nil {
				return 0, err
			}
		}

		elements, err := s.Extractor.ExtractPage(ctx, job.URL, company.Selectors.JobCard)
		if err != nil {
			return 0, err
		}

		if !s.apply(job, elements) {
			s.logger().Warn("no job card content found",
				"company", company.Name,
				"url", job.URL,
			)
			continue
		}

		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.SaveJob(ctx, job)
		}); err != nil {
			return 0, err
		}
		completed = append(completed, job.Signature)
	}

	if len(completed) > 0 {
		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.MarkStageCompleted(ctx, completed, jobharvest.StageDetails)
		}); err != nil {
			return 0, err
		}
	}

	s.logger().Info("details filled",
		"company", company.Name,
		"ready", len(jobs),
		"completed", len(completed),
	)
	return len(completed), nil
}

// apply folds the first found job-card element into the job. Reports false
// when every selector missed or the card yielded no usable description.
func (s *DetailStage) apply(job *jobharvest.Job, elements []jobharvest.ElementResult) bool {
	for _, element := range elements {
		if !element.Found {
			continue
		}

		description, labels, err := s.Parser.ParseDetail(element.HTML)
		if err != nil {
			s.logger().Warn("unparseable job card",
				"url", job.URL,
				"selector", element.Selector,
				"err", err,
			)
			continue
		}
		if strings.TrimSpace(description) == "" {
			continue
		}

		job.Description = description
		job.Technologies = labels
		return true
	}
	return false
}
