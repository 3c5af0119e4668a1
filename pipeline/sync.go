package pipeline

import (
	"context"
	"log/slog"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/resilience"
)

// Sync seeds the catalog from configuration before a harvest run. Both
// operations are idempotent: creating something that already exists
// degrades to fetching it.
type Sync struct {
	Companies    jobharvest.CompanyService
	Technologies jobharvest.TechnologyService
	Storage      *resilience.Policy
	Logger       *slog.Logger
}

func (s *Sync) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// SyncCompanies ensures every configured company exists in the catalog.
// Invalid entries and already-synced companies are skipped with a log line.
func (s *Sync) SyncCompanies(ctx context.Context, companies []*jobharvest.Company) error {
	var created, skipped int
	for _, company := range companies {
		if err := company.Validate(); err != nil {
			s.logger().Warn("skipping invalid company",
				"company", company.Name,
				"err", err,
			)
			skipped++
			continue
		}

		err := guard(ctx, s.Storage, func(ctx context.Context) error {
			return s.Companies.CreateCompany(ctx, company)
		})
		switch {
		case err == nil:
			created++
		case jobharvest.ErrorCode(err) == jobharvest.ECONFLICT:
			skipped++
		default:
			return err
		}
	}

	s.logger().Info("companies synced",
		"total", len(companies),
		"created", created,
		"skipped", skipped,
	)
	return nil
}

// SyncTechnologies ensures every configured technology and its aliases
// exist in the catalog. Seeds are processed in order, so a parent listed
// before its children resolves; a parent that never resolves leaves the
// child top-level. Duplicate aliases are skipped.
func (s *Sync) SyncTechnologies(ctx context.Context, seeds []jobharvest.TechnologySeed) error {
	for _, seed := range seeds {
		tech := &jobharvest.Technology{Name: seed.Name}
		if seed.Parent != "" {
			parent, err := s.Technologies.FindTechnologyByName(ctx, seed.Parent)
			if err == nil {
				tech.ParentID = &parent.ID
			} else if jobharvest.ErrorCode(err) != jobharvest.ENOTFOUND {
				return err
			} else {
				s.logger().Warn("parent technology not found",
					"technology", seed.Name,
					"parent", seed.Parent,
				)
			}
		}

		resolved, err := s.ensureTechnology(ctx, tech)
		if err != nil {
			return err
		}

		for _, alias := range seed.Aliases {
			err := guard(ctx, s.Storage, func(ctx context.Context) error {
				return s.Technologies.CreateTechnologyAlias(ctx, &jobharvest.TechnologyAlias{
					TechnologyID: resolved.ID,
					Alias:        alias,
				})
			})
			if err != nil && jobharvest.ErrorCode(err) != jobharvest.ECONFLICT {
				return err
			}
		}
	}

	s.logger().Info("technologies synced", "total", len(seeds))
	return nil
}

// ensureTechnology creates the technology, or fetches the existing record
// when the name is already taken.
func (s *Sync) ensureTechnology(ctx context.Context, tech *jobharvest.Technology) (*jobharvest.Technology, error) {
	err := guard(ctx, s.Storage, func(ctx context.Context) error {
		return s.Technologies.CreateTechnology(ctx, tech)
	})
	if err == nil {
		return tech, nil
	}
	if jobharvest.ErrorCode(err) != jobharvest.ECONFLICT {
		return nil, err
	}
	return s.Technologies.FindTechnologyByName(ctx, tech.Name)
}
