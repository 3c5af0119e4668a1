package jobharvest

import (
	"context"
	"strings"
	"time"
)

// Company represents a company whose career page is harvested.
type Company struct {
	ID        string         `json:"id" yaml:"-"`
	Name      string         `json:"name" yaml:"name"`
	CareerURL string         `json:"careerUrl" yaml:"career_url"`
	Enabled   bool           `json:"enabled" yaml:"enabled"`
	Selectors SelectorConfig `json:"selectors" yaml:"selectors"`
	CreatedAt time.Time      `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time      `json:"updatedAt" yaml:"-"`
}

// Validate returns an error if the company contains invalid fields.
func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Errorf(EINVALID, "company name required")
	}
	if c.CareerURL == "" {
		return Errorf(EINVALID, "company career URL required")
	}
	if !strings.HasPrefix(c.CareerURL, "http://") && !strings.HasPrefix(c.CareerURL, "https://") {
		return Errorf(EINVALID, "company career URL must start with http:// or https://")
	}
	return c.Selectors.Validate()
}

// CompanyService represents a service for managing companies.
type CompanyService interface {
	// CreateCompany creates a new company.
	// Returns ECONFLICT if a company with the same name exists.
	CreateCompany(ctx context.Context, company *Company) error

	// FindCompanyByName retrieves a company by name.
	// Returns ENOTFOUND if the company does not exist.
	FindCompanyByName(ctx context.Context, name string) (*Company, error)

	// FindCompanies retrieves all companies, enabled and disabled.
	FindCompanies(ctx context.Context) ([]*Company, error)
}
