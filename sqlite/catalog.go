package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/jobharvest"
)

// Compile-time interface verification.
var _ jobharvest.CatalogService = (*CatalogService)(nil)

// CatalogService implements jobharvest.CatalogService using SQLite: the
// publish target completed jobs are uploaded to.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// JobExists reports whether a job with the signature has been published.
func (s *CatalogService) JobExists(ctx context.Context, signature string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM published_jobs WHERE signature = ?
	`, signature).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateJob publishes a new job under the company. Returns EINVALID for a
// job the catalog cannot accept and ECONFLICT when the signature is already
// published.
func (s *CatalogService) CreateJob(ctx context.Context, job *jobharvest.Job, companyID string) error {
	if err := validateForCatalog(job, companyID); err != nil {
		return err
	}

	technologies, err := encodeJSON(job.Technologies)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO published_jobs (signature, company_id, title, url, location, description, technologies, published_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.Signature, companyID, job.Title, job.URL, job.Location, job.Description,
		technologies, now, now)

	if isUniqueViolation(err) {
		return jobharvest.Errorf(jobharvest.ECONFLICT, "job %s already published", job.Signature)
	}
	return err
}

// UpdateJob re-publishes an existing job, matched by signature.
func (s *CatalogService) UpdateJob(ctx context.Context, job *jobharvest.Job, companyID string) error {
	if err := validateForCatalog(job, companyID); err != nil {
		return err
	}

	technologies, err := encodeJSON(job.Technologies)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE published_jobs
		SET company_id = ?, title = ?, url = ?, location = ?, description = ?, technologies = ?, updated_at = ?
		WHERE signature = ?
	`, companyID, job.Title, job.URL, job.Location, job.Description, technologies,
		time.Now().UTC().Format(time.RFC3339), job.Signature)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return jobharvest.Errorf(jobharvest.ENOTFOUND, "job %s not published", job.Signature)
	}
	return nil
}

// validateForCatalog enforces the catalog's acceptance rules: the staging
// store tolerates partial jobs mid-pipeline, the catalog does not.
func validateForCatalog(job *jobharvest.Job, companyID string) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if job.Signature == "" {
		return jobharvest.Errorf(jobharvest.EINVALID, "job signature required")
	}
	if job.Description == "" {
		return jobharvest.Errorf(jobharvest.EINVALID, "job description required")
	}
	if companyID == "" {
		return jobharvest.Errorf(jobharvest.EINVALID, "company id required")
	}
	return nil
}
