package main

import (
	"context"

	"github.com/fwojciec/jobharvest"
)

// Run executes the run command: every harvest stage in pipeline order.
// A stage failure for one company does not stop later stages; each stage
// loads only the jobs that are ready for it.
func (c *RunCmd) Run(deps *Dependencies) error {
	if err := requireExtractor(deps); err != nil {
		return err
	}

	companies, err := loadCompanies(deps)
	if err != nil || len(companies) == 0 {
		return err
	}

	stages := []func(ctx context.Context, companies []*jobharvest.Company) (jobharvest.StageSummary, map[string]jobharvest.TaskResult[int]){
		newListingStage(deps, c.Concurrency).Run,
		newDetailStage(deps, c.Concurrency).Run,
		newSkillStage(deps, c.Concurrency).Run,
		newPublishStage(deps, c.Concurrency).Run,
	}

	for _, run := range stages {
		summary, results := run(deps.Ctx, companies)
		printSummary(deps.Stdout, summary, results)
	}

	return nil
}
