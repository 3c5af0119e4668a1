package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/bloom"
	"github.com/fwojciec/jobharvest/pipeline"
)

// seenFilterCapacity sizes the per-run dedup filter. A harvest over a few
// hundred companies stays far below this.
const seenFilterCapacity = 100_000

// requireExtractor reports a wiring fault instead of letting a nil
// extractor surface as a recovered panic on every company.
func requireExtractor(deps *Dependencies) error {
	if deps.Extractor == nil {
		return jobharvest.Errorf(jobharvest.EINTERNAL, "browser extractor is not wired for this command")
	}
	return nil
}

// loadCompanies returns the synced companies from storage.
func loadCompanies(deps *Dependencies) ([]*jobharvest.Company, error) {
	companies, err := deps.Companies.FindCompanies(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobharvest.ErrorMessage(err))
		return nil, err
	}
	if len(companies) == 0 {
		fmt.Fprintln(deps.Stdout, "No companies found. Use 'jobharvest sync' to load them from the config.")
	}
	return companies, nil
}

// runner builds the stage runner for a command's concurrency flag.
func runner(deps *Dependencies, concurrency int) pipeline.Runner {
	return pipeline.Runner{
		Concurrency: concurrency,
		ItemTimeout: deps.ItemTimeout,
		Logger:      deps.Logger,
	}
}

// printSummary reports a stage outcome, listing failed companies by name.
func printSummary(w io.Writer, summary jobharvest.StageSummary, results map[string]jobharvest.TaskResult[int]) {
	fmt.Fprintf(w, "%s: %d processed, %d succeeded, %d failed, %d jobs\n",
		summary.Stage, summary.Processed, summary.Succeeded, summary.Failed, summary.Jobs)

	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if r := results[key]; r.IsFailure() {
			fmt.Fprintf(w, "  %s: %s\n", key, r.Error)
		}
	}
}

func newListingStage(deps *Dependencies, concurrency int) *pipeline.ListingStage {
	return &pipeline.ListingStage{
		Extractor: deps.Extractor,
		Parser:    deps.Postings,
		Jobs:      deps.Jobs,
		Limiter:   deps.Limiter,
		Storage:   deps.Storage,
		Seen:      bloom.NewFilter(seenFilterCapacity, 0.01),
		Runner:    runner(deps, concurrency),
		Logger:    deps.Logger,
	}
}

func newDetailStage(deps *Dependencies, concurrency int) *pipeline.DetailStage {
	return &pipeline.DetailStage{
		Extractor: deps.Extractor,
		Parser:    deps.Details,
		Jobs:      deps.Jobs,
		Limiter:   deps.Limiter,
		Storage:   deps.Storage,
		Runner:    runner(deps, concurrency),
		Logger:    deps.Logger,
	}
}

func newSkillStage(deps *Dependencies, concurrency int) *pipeline.SkillStage {
	return &pipeline.SkillStage{
		Jobs:         deps.Jobs,
		Technologies: deps.Technologies,
		Storage:      deps.Storage,
		Runner:       runner(deps, concurrency),
		Logger:       deps.Logger,
	}
}

func newPublishStage(deps *Dependencies, concurrency int) *pipeline.PublishStage {
	return &pipeline.PublishStage{
		Jobs:      deps.Jobs,
		Companies: deps.Companies,
		Catalog:   deps.Catalog,
		Storage:   deps.Storage,
		Runner:    runner(deps, concurrency),
		Logger:    deps.Logger,
	}
}
