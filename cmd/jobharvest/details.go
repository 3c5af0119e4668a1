package main

// Run executes the details command.
func (c *DetailsCmd) Run(deps *Dependencies) error {
	if err := requireExtractor(deps); err != nil {
		return err
	}

	companies, err := loadCompanies(deps)
	if err != nil || len(companies) == 0 {
		return err
	}

	stage := newDetailStage(deps, c.Concurrency)
	summary, results := stage.Run(deps.Ctx, companies)
	printSummary(deps.Stdout, summary, results)

	return nil
}
