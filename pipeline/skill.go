package pipeline

import (
	"context"
	"log/slog"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/resilience"
)

// SkillStage resolves each job's free-text technology labels against the
// catalog. Resolution tries the canonical name first, then the alias table;
// labels that match neither are recorded as unmatched and dropped from the
// job. Matched labels are replaced with their canonical names.
type SkillStage struct {
	Jobs         jobharvest.JobService
	Technologies jobharvest.TechnologyService
	Storage      *resilience.Policy
	Runner       Runner
	Logger       *slog.Logger
}

// Run resolves labels for every company's detail-complete jobs. Each
// successful item reports the number of jobs resolved for that company.
func (s *SkillStage) Run(ctx context.Context, companies []*jobharvest.Company) (jobharvest.StageSummary, map[string]jobharvest.TaskResult[int]) {
	enabled := make([]*jobharvest.Company, 0, len(companies))
	for _, company := range companies {
		if company.Enabled {
			enabled = append(enabled, company)
		}
	}

	results := Run(ctx, s.runner(), enabled,
		func(c *jobharvest.Company) string { return c.Name },
		s.resolve,
	)
	return summarize(jobharvest.StageSkills, results), results
}

func (s *SkillStage) runner() Runner {
	r := s.Runner
	if r.Logger == nil {
		r.Logger = s.logger()
	}
	return r
}

func (s *SkillStage) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *SkillStage) resolve(ctx context.Context, company *jobharvest.Company) (int, error) {
	var jobs []*jobharvest.Job
	if err := guard(ctx, s.Storage, func(ctx context.Context) error {
		var err error
		jobs, err = s.Jobs.FindJobsForStage(ctx, company.Name, jobharvest.StageSkills)
		return err
	}); err != nil {
		return 0, err
	}

	resolved := make([]string, 0, len(jobs))
	for _, job := range jobs {
		canonical, err := s.resolveLabels(ctx, company.Name, job.Technologies)
		if err != nil {
			return 0, err
		}
		job.Technologies = canonical

		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.SaveJob(ctx, job)
		}); err != nil {
			return 0, err
		}
		resolved = append(resolved, job.Signature)
	}

	if len(resolved) > 0 {
		if err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Jobs.MarkStageCompleted(ctx, resolved, jobharvest.StageSkills)
		}); err != nil {
			return 0, err
		}
	}

	s.logger().Info("skills resolved",
		"company", company.Name,
		"jobs", len(resolved),
	)
	return len(resolved), nil
}

// resolveLabels maps free-text labels to canonical technology names,
// deduplicating labels that resolve to the same technology. Only a storage
// failure is an error; an unresolvable label is a normal outcome.
func (s *SkillStage) resolveLabels(ctx context.Context, companyName string, labels []string) ([]string, error) {
	canonical := make([]string, 0, len(labels))
	seen := make(map[int64]bool, len(labels))

	for _, label := range labels {
		tech, err := s.lookup(ctx, label)
		if err != nil {
			if jobharvest.ErrorCode(err) != jobharvest.ENOTFOUND {
				return nil, err
			}
			s.logger().Info("unmatched technology label",
				"company", companyName,
				"label", label,
			)
			if err := guard(ctx, s.Storage, func(ctx context.Context) error {
				return s.Technologies.RecordUnmatchedTechnology(ctx, label, companyName)
			}); err != nil {
				return nil, err
			}
			continue
		}
		if seen[tech.ID] {
			continue
		}
		seen[tech.ID] = true
		canonical = append(canonical, tech.Name)
	}
	return canonical, nil
}

// lookup tries the canonical name first, then the alias table. Lookups run
// outside the storage policy: a miss is an expected outcome here, and
// counting it against the circuit breaker would open the breaker under
// perfectly healthy storage.
func (s *SkillStage) lookup(ctx context.Context, label string) (*jobharvest.Technology, error) {
	tech, err := s.Technologies.FindTechnologyByName(ctx, label)
	if err == nil {
		return tech, nil
	}
	if jobharvest.ErrorCode(err) != jobharvest.ENOTFOUND {
		return nil, err
	}
	return s.Technologies.FindTechnologyByAlias(ctx, label)
}
