package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobharvest.CompanyService = (*CompanyService)(nil)

// CompanyService implements jobharvest.CompanyService using SQLite.
type CompanyService struct {
	db *DB
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(db *DB) *CompanyService {
	return &CompanyService{db: db}
}

// CreateCompany creates a new company. Returns ECONFLICT if a company with
// the same name exists.
func (s *CompanyService) CreateCompany(ctx context.Context, company *jobharvest.Company) error {
	if err := company.Validate(); err != nil {
		return err
	}

	selectors, err := encodeJSON(company.Selectors)
	if err != nil {
		return err
	}

	company.ID = uuid.New().String()
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, career_url, enabled, selectors, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, company.ID, company.Name, company.CareerURL, boolToInt(company.Enabled), selectors,
		company.CreatedAt.Format(time.RFC3339), company.UpdatedAt.Format(time.RFC3339))

	if isUniqueViolation(err) {
		return jobharvest.Errorf(jobharvest.ECONFLICT, "company %q already exists", company.Name)
	}
	return err
}

// FindCompanyByName retrieves a company by name.
func (s *CompanyService) FindCompanyByName(ctx context.Context, name string) (*jobharvest.Company, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, career_url, enabled, selectors, created_at, updated_at
		FROM companies
		WHERE name = ?
	`, name)

	company, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "company %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

// FindCompanies retrieves all companies, enabled and disabled, ordered by
// name.
func (s *CompanyService) FindCompanies(ctx context.Context) ([]*jobharvest.Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, career_url, enabled, selectors, created_at, updated_at
		FROM companies
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*jobharvest.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*jobharvest.Company, error) {
	var company jobharvest.Company
	var enabled int
	var selectors, createdAt, updatedAt string

	if err := row.Scan(&company.ID, &company.Name, &company.CareerURL, &enabled,
		&selectors, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	company.Enabled = enabled != 0
	if err := decodeJSON(selectors, &company.Selectors); err != nil {
		return nil, err
	}

	var err error
	if company.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if company.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &company, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
