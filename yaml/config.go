// Package yaml loads harvest configuration: the companies to visit, their
// selector groups, and the technology catalog seeds.
package yaml

import (
	"log/slog"
	"os"

	"github.com/fwojciec/jobharvest"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration document.
type Config struct {
	Companies    []*jobharvest.Company       `yaml:"companies"`
	Technologies []jobharvest.TechnologySeed `yaml:"technologies"`
}

// LoadConfig reads and parses a configuration file. Companies that fail
// validation are dropped with a warning rather than failing the load: one
// bad entry should not stop a harvest over the remaining companies.
func LoadConfig(path string, logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jobharvest.WrapErr(err, jobharvest.ENOTFOUND, "reading config %s", path)
	}
	return ParseConfig(data, logger)
}

// ParseConfig parses a configuration document.
func ParseConfig(data []byte, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, jobharvest.WrapErr(err, jobharvest.EINVALID, "parsing config")
	}

	valid := make([]*jobharvest.Company, 0, len(cfg.Companies))
	for _, company := range cfg.Companies {
		if err := company.Validate(); err != nil {
			logger.Warn("skipping invalid company in config",
				"company", company.Name,
				"err", err,
			)
			continue
		}
		valid = append(valid, company)
	}
	cfg.Companies = valid

	for _, seed := range cfg.Technologies {
		if seed.Name == "" {
			return nil, jobharvest.Errorf(jobharvest.EINVALID, "technology seed without a name")
		}
	}

	return &cfg, nil
}
