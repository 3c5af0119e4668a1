package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/jobharvest"
)

// previewLen bounds the matched-text preview in selector probe output.
const previewLen = 80

// Run executes the selectors command. It probes the named company's
// selector group against its live career page and reports what each
// selector matched, which is the fast way to debug a selector config
// before running a full harvest.
func (c *SelectorsCmd) Run(deps *Dependencies) error {
	if err := requireExtractor(deps); err != nil {
		return err
	}

	company := findConfiguredCompany(deps.Config.Companies, c.Company)
	if company == nil {
		fmt.Fprintf(deps.Stderr, "error: company %q not found in config\n", c.Company)
		return jobharvest.Errorf(jobharvest.ENOTFOUND, "company %q not found in config", c.Company)
	}

	group := company.Selectors.JobBoard
	if c.Card {
		group = company.Selectors.JobCard
	}

	fmt.Fprintf(deps.Stdout, "Probing %s (%s strategy) at %s\n", company.Name, group.Kind, company.CareerURL)

	results, err := deps.Extractor.ExtractPage(deps.Ctx, company.CareerURL, group)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobharvest.ErrorMessage(err))
		return err
	}

	for _, r := range results {
		status := "miss"
		if r.Found {
			status = "hit "
		}
		fmt.Fprintf(deps.Stdout, "  [%s] %s (%s)\n", status, r.Selector, r.Context)
		if r.Found {
			fmt.Fprintf(deps.Stdout, "        %s\n", preview(r.Text))
		}
		if r.Err != "" {
			fmt.Fprintf(deps.Stdout, "        error: %s\n", r.Err)
		}
	}

	return nil
}

func findConfiguredCompany(companies []*jobharvest.Company, name string) *jobharvest.Company {
	for _, company := range companies {
		if strings.EqualFold(company.Name, name) {
			return company
		}
	}
	return nil
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > previewLen {
		return s[:previewLen] + "..."
	}
	return s
}
