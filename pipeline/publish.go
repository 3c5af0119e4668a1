package pipeline

import (
	"context"
	"log/slog"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/resilience"
)

// PublishStage uploads completed jobs to the catalog. The upsert is
// signature-keyed: a job already published is updated in place, so
// re-running the stage after a partial failure publishes each job exactly
// once. A company missing from the catalog skips that company; a job the
// catalog rejects as invalid or conflicting skips that job; transient
// errors bubble to the item boundary so the whole company retries next run.
type PublishStage struct {
	Jobs      jobharvest.JobService
	Companies jobharvest.CompanyService
	Catalog   jobharvest.CatalogService
	Storage   *resilience.Policy
	Runner    Runner
	Logger    *slog.Logger
}

// Run publishes every company's skill-complete jobs. Each successful item
// reports the number of jobs published for that company.
func (s *PublishStage) Run(ctx context.Context, companies []*jobharvest.Company) (jobharvest.StageSummary, map[string]jobharvest.TaskResult[int]) {
	enabled := make([]*jobharvest.Company, 0, len(companies))
	for _, company := range companies {
		if company.Enabled {
			enabled = append(enabled, company)
		}
	}

	results := Run(ctx, s.runner(), enabled,
		func(c *jobharvest.Company) string { return c.Name },
		s.publish,
	)
	return summarize(jobharvest.StagePublish, results), results
}

func (s *PublishStage) runner() Runner {
	r := s.Runner
	if r.Logger == nil {
		r.Logger = s.logger()
	}
	return r
}

func (s *PublishStage) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *PublishStage) publish(ctx context.Context, company *jobharvest.Company) (int, error) {
	record, err := s.Companies.FindCompanyByName(ctx, company.Name)
	if err != nil {
		if jobharvest.ErrorCode(err) == jobharvest.ENOTFOUND {
			s.logger().Warn("company not in catalog, skipping",
				"company", company.Name,
			)
			return 0, nil
		}
		return 0, err
	}

	var jobs []*jobharvest.Job
	if err := guard(ctx, s.Storage, func(ctx context.Context) error {
		var err error
		jobs, err = s.Jobs.FindJobsForStage(ctx, company.Name, jobharvest.StagePublish)
		return err
	}); err != nil {
		return 0, err
	}

	published := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if err := s.upsert(ctx, job, record.ID); err != nil {
			switch jobharvest.ErrorCode(err) {
			case jobharvest.EINVALID, jobharvest.ECONFLICT:
				s.logger().Warn("catalog rejected job, skipping",
					"company", company.Name,
					"signature", job.Signature,
					"err", err,
				)
				continue
			default:
				return 0, err
			}
		}
		published = append(published, job.Signature)
	}

	if len(published) > 0 {
		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.MarkStageCompleted(ctx, published, jobharvest.StagePublish)
		}); err != nil {
			return 0, err
		}
	}

	s.logger().Info("jobs published",
		"company", company.Name,
		"ready", len(jobs),
		"published", len(published),
	)
	return len(published), nil
}

// upsert publishes one job: update when the signature is already in the
// catalog, create otherwise.
func (s *PublishStage) upsert(ctx context.Context, job *jobharvest.Job, companyID string) error {
	var exists bool
	if err := guard(ctx, s.Storage, func(ctx context.Context) error {
		var err error
		exists, err = s.Catalog.JobExists(ctx, job.Signature)
		return err
	}); err != nil {
		return err
	}

	return guard(ctx, s.Storage, func(ctx context.Context) error {
		if exists {
			return s.Catalog.UpdateJob(ctx, job, companyID)
		}
		return s.Catalog.CreateJob(ctx, job, companyID)
	})
}
