package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/jobharvest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobharvest.JobService = (*JobService)(nil)

// JobService implements jobharvest.JobService using SQLite. It is the
// staging store: jobs live here between stages, keyed by their
// content-derived signature.
type JobService struct {
	db *DB
}

// NewJobService creates a new JobService.
func NewJobService(db *DB) *JobService {
	return &JobService{db: db}
}

// SaveJob creates the job if its signature is unseen, otherwise updates the
// existing record in place. Stage marks survive an update.
func (s *JobService) SaveJob(ctx context.Context, job *jobharvest.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if job.Signature == "" {
		job.Signature = jobharvest.Signature(job.CompanyName, job.Title, job.URL)
	}

	technologies, err := encodeJSON(job.Technologies)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	existing, err := s.FindJobBySignature(ctx, job.Signature)
	if err != nil && jobharvest.ErrorCode(err) != jobharvest.ENOTFOUND {
		return err
	}

	if existing == nil {
		job.ID = uuid.New().String()
		job.CreatedAt = now
		job.UpdatedAt = now

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO jobs (id, signature, company_name, title, url, location, description, technologies, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, job.ID, job.Signature, job.CompanyName, job.Title, job.URL, job.Location,
			job.Description, technologies,
			job.CreatedAt.Format(time.RFC3339), job.UpdatedAt.Format(time.RFC3339))
		return err
	}

	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	job.Stages = existing.Stages
	job.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		UPDATE jobs
		SET company_name = ?, title = ?, url = ?, location = ?, description = ?, technologies = ?, updated_at = ?
		WHERE signature = ?
	`, job.CompanyName, job.Title, job.URL, job.Location, job.Description, technologies,
		job.UpdatedAt.Format(time.RFC3339), job.Signature)
	return err
}

// FindJobBySignature retrieves a job by signature, including its stage
// marks.
func (s *JobService) FindJobBySignature(ctx context.Context, signature string) (*jobharvest.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, signature, company_name, title, url, location, description, technologies, created_at, updated_at
		FROM jobs
		WHERE signature = ?
	`, signature)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "job not found")
	}
	if err != nil {
		return nil, err
	}

	if job.Stages, err = s.loadStages(ctx, signature); err != nil {
		return nil, err
	}
	return job, nil
}

// FindJobsForStage retrieves a company's jobs that are ready for the given
// stage: the preceding stage is marked complete and the given stage is not.
func (s *JobService) FindJobsForStage(ctx context.Context, companyName string, stage jobharvest.Stage) ([]*jobharvest.Job, error) {
	if !stage.Valid() {
		return nil, jobharvest.Errorf(jobharvest.EINVALID, "unknown stage %q", string(stage))
	}

	query := `
		SELECT id, signature, company_name, title, url, location, description, technologies, created_at, updated_at
		FROM jobs j
		WHERE j.company_name = ?
		AND NOT EXISTS (SELECT 1 FROM job_stages m WHERE m.signature = j.signature AND m.stage = ?)`
	args := []any{companyName, string(stage)}

	if prev := precedingStage(stage); prev != "" {
		query += `
		AND EXISTS (SELECT 1 FROM job_stages m WHERE m.signature = j.signature AND m.stage = ?)`
		args = append(args, string(prev))
	}
	query += `
		ORDER BY j.created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*jobharvest.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if job.Stages, err = s.loadStages(ctx, job.Signature); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// MarkStageCompleted marks the stage complete for every signature. Marking
// an already-marked stage is a no-op, so at-least-once stage runs are safe.
func (s *JobService) MarkStageCompleted(ctx context.Context, signatures []string, stage jobharvest.Stage) error {
	if !stage.Valid() {
		return jobharvest.Errorf(jobharvest.EINVALID, "unknown stage %q", string(stage))
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, signature := range signatures {
		if _, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO job_stages (signature, stage, completed_at)
			VALUES (?, ?, ?)
		`, signature, string(stage), now); err != nil {
			return err
		}
	}
	return nil
}

func (s *JobService) loadStages(ctx context.Context, signature string) ([]jobharvest.Stage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stage FROM job_stages
		WHERE signature = ?
		ORDER BY completed_at, stage
	`, signature)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []jobharvest.Stage
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, err
		}
		stages = append(stages, jobharvest.Stage(stage))
	}
	return stages, rows.Err()
}

func scanJob(row rowScanner) (*jobharvest.Job, error) {
	var job jobharvest.Job
	var technologies, createdAt, updatedAt string

	if err := row.Scan(&job.ID, &job.Signature, &job.CompanyName, &job.Title, &job.URL,
		&job.Location, &job.Description, &technologies, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(technologies, &job.Technologies); err != nil {
		return nil, err
	}

	var err error
	if job.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &job, nil
}

// precedingStage returns the stage that must be complete before the given
// stage runs. Listings has no predecessor: it creates the jobs.
func precedingStage(stage jobharvest.Stage) jobharvest.Stage {
	switch stage {
	case jobharvest.StageDetails:
		return jobharvest.StageListings
	case jobharvest.StageSkills:
		return jobharvest.StageDetails
	case jobharvest.StagePublish:
		return jobharvest.StageSkills
	}
	return ""
}
