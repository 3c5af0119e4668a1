package main

import (
	"fmt"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/pipeline"
)

// Run executes the sync command.
func (c *SyncCmd) Run(deps *Dependencies) error {
	sync := &pipeline.Sync{
		Companies:    deps.Companies,
		Technologies: deps.Technologies,
		Storage:      deps.Storage,
		Logger:       deps.Logger,
	}

	if err := sync.SyncCompanies(deps.Ctx, deps.Config.Companies); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobharvest.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Synced %d companies\n", len(deps.Config.Companies))

	if err := sync.SyncTechnologies(deps.Ctx, deps.Config.Technologies); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobharvest.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Synced %d technology seeds\n", len(deps.Config.Technologies))

	return nil
}
