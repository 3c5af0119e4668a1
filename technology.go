package jobharvest

import (
	"context"
	"time"
)

// Technology represents a canonical technology in the catalog.
type Technology struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}

// Validate returns an error if the technology contains invalid fields.
func (t *Technology) Validate() error {
	if t.Name == "" {
		return Errorf(EINVALID, "technology name required")
	}
	return nil
}

// TechnologyAlias maps an alternative label to a canonical technology.
type TechnologyAlias struct {
	ID           int64  `json:"id"`
	TechnologyID int64  `json:"technologyId"`
	Alias        string `json:"alias"`
}

// TechnologySeed describes a catalog entry loaded from configuration.
// Seeds are ordered: a parent must be listed before the children naming it.
type TechnologySeed struct {
	Name    string   `json:"name" yaml:"name"`
	Parent  string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// UnmatchedTechnology records a free-text label that resolved to nothing,
// so the catalog can be extended later.
type UnmatchedTechnology struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	CompanyName string    `json:"companyName"`
	SeenCount   int       `json:"seenCount"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// TechnologyService manages the technology catalog and label resolution.
type TechnologyService interface {
	// CreateTechnology creates a canonical technology.
	// Returns ECONFLICT if the name already exists.
	CreateTechnology(ctx context.Context, tech *Technology) error

	// FindTechnologyByName retrieves a technology by canonical name
	// (case-insensitive). Returns ENOTFOUND if absent.
	FindTechnologyByName(ctx context.Context, name string) (*Technology, error)

	// CreateTechnologyAlias registers an alias for a technology.
	// Returns ECONFLICT if the alias already exists.
	CreateTechnologyAlias(ctx context.Context, alias *TechnologyAlias) error

	// FindTechnologyByAlias retrieves a technology by alias
	// (case-insensitive). Returns ENOTFOUND if absent.
	FindTechnologyByAlias(ctx context.Context, alias string) (*Technology, error)

	// RecordUnmatchedTechnology records a label that resolved to nothing.
	// Recording the same label again increments its seen count.
	RecordUnmatchedTechnology(ctx context.Context, label, companyName string) error
}

// CatalogService is the publish target: the relational store completed jobs
// are uploaded to.
type CatalogService interface {
	// JobExists reports whether a job with the signature has been published.
	JobExists(ctx context.Context, signature string) (bool, error)

	// CreateJob publishes a new job under the company.
	CreateJob(ctx context.Context, job *Job, companyID string) error

	// UpdateJob re-publishes an existing job (matched by signature).
	// Returns ENOTFOUND if no job with the signature exists.
	UpdateJob(ctx context.Context, job *Job, companyID string) error
}
