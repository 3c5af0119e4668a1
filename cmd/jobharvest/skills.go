package main

// Run executes the skills command.
func (c *SkillsCmd) Run(deps *Dependencies) error {
	companies, err := loadCompanies(deps)
	if err != nil || len(companies) == 0 {
		return err
	}

	stage := newSkillStage(deps, c.Concurrency)
	summary, results := stage.Run(deps.Ctx, companies)
	printSummary(deps.Stdout, summary, results)

	return nil
}
