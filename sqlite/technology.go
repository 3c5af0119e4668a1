package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobharvest.TechnologyService = (*TechnologyService)(nil)

// TechnologyService implements jobharvest.TechnologyService using SQLite.
// Name and alias lookups are case-insensitive via NOCASE collation.
type TechnologyService struct {
	db *DB
}

// NewTechnologyService creates a new TechnologyService.
func NewTechnologyService(db *DB) *TechnologyService {
	return &TechnologyService{db: db}
}

// CreateTechnology creates a canonical technology. Returns ECONFLICT if the
// name already exists.
func (s *TechnologyService) CreateTechnology(ctx context.Context, tech *jobharvest.Technology) error {
	if err := tech.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO technologies (name, parent_id) VALUES (?, ?)
	`, tech.Name, tech.ParentID)
	if isUniqueViolation(err) {
		return jobharvest.Errorf(jobharvest.ECONFLICT, "technology %q already exists", tech.Name)
	}
	if err != nil {
		return err
	}

	tech.ID, err = result.LastInsertId()
	return err
}

// FindTechnologyByName retrieves a technology by canonical name,
// case-insensitively.
func (s *TechnologyService) FindTechnologyByName(ctx context.Context, name string) (*jobharvest.Technology, error) {
	var tech jobharvest.Technology
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id FROM technologies WHERE name = ?
	`, name).Scan(&tech.ID, &tech.Name, &tech.ParentID)

	if err == sql.ErrNoRows {
		return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "technology %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

// CreateTechnologyAlias registers an alias for a technology. Returns
// ECONFLICT if the alias already exists.
func (s *TechnologyService) CreateTechnologyAlias(ctx context.Context, alias *jobharvest.TechnologyAlias) error {
	if alias.Alias == "" {
		return jobharvest.Errorf(jobharvest.EINVALID, "alias required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO technology_aliases (technology_id, alias) VALUES (?, ?)
	`, alias.TechnologyID, alias.Alias)
	if isUniqueViolation(err) {
		return jobharvest.Errorf(jobharvest.ECONFLICT, "alias %q already exists", alias.Alias)
	}
	if err != nil {
		return err
	}

	alias.ID, err = result.LastInsertId()
	return err
}

// FindTechnologyByAlias retrieves a technology by alias, case-insensitively.
func (s *TechnologyService) FindTechnologyByAlias(ctx context.Context, alias string) (*jobharvest.Technology, error) {
	var tech jobharvest.Technology
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.name, t.parent_id
		FROM technologies t
		JOIN technology_aliases a ON a.technology_id = t.id
		WHERE a.alias = ?
	`, alias).Scan(&tech.ID, &tech.Name, &tech.ParentID)

	if err == sql.ErrNoRows {
		return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "no technology with alias %q", alias)
	}
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

// RecordUnmatchedTechnology records a label that resolved to nothing.
// Recording the same label for the same company again increments its seen
// count.
func (s *TechnologyService) RecordUnmatchedTechnology(ctx context.Context, label, companyName string) error {
	if label == "" {
		return jobharvest.Errorf(jobharvest.EINVALID, "label required")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unmatched_technologies (id, label, company_name, seen_count, last_seen_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (label, company_name) DO UPDATE SET
			seen_count = seen_count + 1,
			last_seen_at = excluded.last_seen_at
	`, uuid.New().String(), label, companyName, now)
	return err
}
