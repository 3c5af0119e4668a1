package main

// Run executes the listings command.
func (c *ListingsCmd) Run(deps *Dependencies) error {
	if err := requireExtractor(deps); err != nil {
		return err
	}

	companies, err := loadCompanies(deps)
	if err != nil || len(companies) == 0 {
		return err
	}

	stage := newListingStage(deps, c.Concurrency)
	summary, results := stage.Run(deps.Ctx, companies)
	printSummary(deps.Stdout, summary, results)

	return nil
}
