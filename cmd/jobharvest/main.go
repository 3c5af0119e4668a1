package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/extract"
	"github.com/fwojciec/jobharvest/goquery"
	"github.com/fwojciec/jobharvest/pipeline"
	"github.com/fwojciec/jobharvest/resilience"
	"github.com/fwojciec/jobharvest/rod"
	jobslog "github.com/fwojciec/jobharvest/slog"
	"github.com/fwojciec/jobharvest/sqlite"
	"github.com/fwojciec/jobharvest/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	JobService        jobharvest.JobService
	CompanyService    jobharvest.CompanyService
	TechnologyService jobharvest.TechnologyService
	CatalogService    jobharvest.CatalogService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobharvest"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobharvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Load harvest configuration
	cfg, err := yaml.LoadConfig(cli.Config, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Pass --config to use a different configuration file\n")
		return fmt.Errorf("failed to load config at %q: %w", cli.Config, err)
	}
	deps.Config = cfg

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set JOBHARVEST_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.JobService = jobslog.NewLoggingJobService(sqlite.NewJobService(m.DB), logger)
	m.CompanyService = sqlite.NewCompanyService(m.DB)
	m.TechnologyService = sqlite.NewTechnologyService(m.DB)
	m.CatalogService = sqlite.NewCatalogService(m.DB)
	deps.DB = m.DB
	deps.Jobs = m.JobService
	deps.Companies = m.CompanyService
	deps.Technologies = m.TechnologyService
	deps.Catalog = m.CatalogService
	deps.Postings = goquery.NewPostingParser()
	deps.Details = goquery.NewDetailParser()
	deps.Limiter = pipeline.NewDomainLimiter(cli.RateLimit)
	deps.ItemTimeout = cli.ItemTimeout

	retry := resilience.NewRetry()
	if cli.RetryAttempts > 0 {
		retry.MaxAttempts = cli.RetryAttempts
	}
	retry.Logger = logger
	deps.Storage = resilience.NewPolicy(
		resilience.NewCircuitBreaker(
			resilience.WithFailureThreshold(cli.BreakerThreshold),
			resilience.WithBreakerLogger(logger),
		),
		retry,
	)

	// Wire the browser only for commands that visit career pages. The
	// command name comes from the parsed context rather than the raw
	// arguments: a global flag may precede the command.
	if needsBrowser(kongCtx.Command()) {
		browser, err := rod.NewBrowser()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer browser.Close()

		deps.Extractor = jobslog.NewLoggingExtractor(extract.NewEngine(browser, logger), logger)
	}

	return kongCtx.Run(deps)
}

// needsBrowser reports whether the command drives live page extraction.
// command is a kong context command, e.g. "selectors <company>".
func needsBrowser(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "listings", "details", "selectors", "run":
		return true
	}
	return false
}

func defaultDBPath() string {
	if path := os.Getenv("JOBHARVEST_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobharvest.db"
	}
	dir := filepath.Join(home, ".jobharvest")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "jobharvest.db")
}
