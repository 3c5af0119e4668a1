package jobharvest

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Job represents a job posting as it moves through the pipeline. A job is
// identified by its content-derived Signature: two postings with the same
// company, title, and URL are the same job, whichever run observed them.
type Job struct {
	ID           string    `json:"id"`
	CompanyName  string    `json:"companyName"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	Signature    string    `json:"signature"`
	Stages       []Stage   `json:"stages"` // completed stages, in order
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the job contains invalid fields.
func (j *Job) Validate() error {
	if j.CompanyName == "" {
		return Errorf(EINVALID, "job company name required")
	}
	if j.Title == "" {
		return Errorf(EINVALID, "job title required")
	}
	if j.URL == "" {
		return Errorf(EINVALID, "job URL required")
	}
	return nil
}

// StageCompleted reports whether the given stage has been marked complete.
func (j *Job) StageCompleted(stage Stage) bool {
	for _, s := range j.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Signature computes the content-derived identity of a posting. It drives
// the create-vs-update branch on persistence: saving two postings with the
// same signature updates one record rather than creating two.
func Signature(companyName, title, url string) string {
	h := xxhash.New()
	_, _ = h.WriteString(companyName)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(title)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(url)
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h.Sum64())
	return hex.EncodeToString(b)
}

// JobService represents the staging store: the signature-keyed collection
// jobs pass through between stages.
type JobService interface {
	// SaveJob creates the job if its signature is unseen, otherwise updates
	// the existing record. Idempotent with respect to signature.
	SaveJob(ctx context.Context, job *Job) error

	// FindJobBySignature retrieves a job by signature.
	// Returns ENOTFOUND if the job does not exist.
	FindJobBySignature(ctx context.Context, signature string) (*Job, error)

	// FindJobsForStage retrieves a company's jobs that are ready for the
	// given stage: the preceding stage is complete and the given stage is
	// not.
	FindJobsForStage(ctx context.Context, companyName string, stage Stage) ([]*Job, error)

	// MarkStageCompleted marks the stage complete for every signature.
	MarkStageCompleted(ctx context.Context, signatures []string, stage Stage) error
}
