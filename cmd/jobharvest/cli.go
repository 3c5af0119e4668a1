package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/resilience"
	"github.com/fwojciec/jobharvest/sqlite"
	"github.com/fwojciec/jobharvest/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB           *sqlite.DB
	Config       *yaml.Config
	Jobs         jobharvest.JobService
	Companies    jobharvest.CompanyService
	Technologies jobharvest.TechnologyService
	Catalog      jobharvest.CatalogService
	Extractor    jobharvest.Extractor
	Postings     jobharvest.PostingParser
	Details      jobharvest.DetailParser
	Limiter      jobharvest.DomainLimiter
	Storage      *resilience.Policy
	ItemTimeout  time.Duration
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" default:"jobharvest.yml" env:"JOBHARVEST_CONFIG" help:"Path to the harvest configuration file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	RetryAttempts    int           `default:"3" env:"JOBHARVEST_RETRY_ATTEMPTS" help:"Attempts for retryable storage and upstream failures"`
	BreakerThreshold int           `default:"5" env:"JOBHARVEST_BREAKER_THRESHOLD" help:"Consecutive failures before the circuit opens"`
	ItemTimeout      time.Duration `default:"0" env:"JOBHARVEST_ITEM_TIMEOUT" help:"Per-company timeout within a stage (0 disables)"`
	RateLimit        float64       `default:"1" env:"JOBHARVEST_RATE_LIMIT" help:"Requests per second per employer domain"`

	Sync      SyncCmd      `cmd:"" help:"Sync companies and technology seeds from the config into storage"`
	Listings  ListingsCmd  `cmd:"" help:"Extract job listings from career pages"`
	Details   DetailsCmd   `cmd:"" help:"Extract detail content for staged jobs"`
	Skills    SkillsCmd    `cmd:"" help:"Resolve technology labels on detail-complete jobs"`
	Publish   PublishCmd   `cmd:"" help:"Publish completed jobs to the catalog"`
	Run       RunCmd       `cmd:"" help:"Run all harvest stages in order"`
	Selectors SelectorsCmd `cmd:"" help:"Probe a company's selectors against its live career page"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct{}

// ListingsCmd is the "listings" subcommand.
type ListingsCmd struct {
	Concurrency int `default:"3" help:"Concurrent company limit"`
}

// DetailsCmd is the "details" subcommand.
type DetailsCmd struct {
	Concurrency int `default:"3" help:"Concurrent company limit"`
}

// SkillsCmd is the "skills" subcommand.
type SkillsCmd struct {
	Concurrency int `default:"3" help:"Concurrent company limit"`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	Concurrency int `default:"3" help:"Concurrent company limit"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Concurrency int `default:"3" help:"Concurrent company limit"`
}

// SelectorsCmd is the "selectors" subcommand.
type SelectorsCmd struct {
	Company string `arg:"" help:"Company name from the config"`
	Card    bool   `help:"Probe the job-card selectors instead of the job-board selectors"`
}
