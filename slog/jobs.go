package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobharvest"
)

// Ensure LoggingJobService implements jobharvest.JobService.
var _ jobharvest.JobService = (*LoggingJobService)(nil)

// LoggingJobService wraps a JobService with debug logging on the write
// paths. Reads delegate silently.
type LoggingJobService struct {
	next   jobharvest.JobService
	logger *slog.Logger
}

// NewLoggingJobService creates a new LoggingJobService.
func NewLoggingJobService(next jobharvest.JobService, logger *slog.Logger) *LoggingJobService {
	return &LoggingJobService{next: next, logger: logger}
}

// SaveJob logs the signature being staged and delegates.
func (s *LoggingJobService) SaveJob(ctx context.Context, job *jobharvest.Job) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save job",
			"signature", job.Signature,
			"company", job.CompanyName,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveJob(ctx, job)
}

// FindJobBySignature delegates to the wrapped service.
func (s *LoggingJobService) FindJobBySignature(ctx context.Context, signature string) (*jobharvest.Job, error) {
	return s.next.FindJobBySignature(ctx, signature)
}

// FindJobsForStage delegates to the wrapped service.
func (s *LoggingJobService) FindJobsForStage(ctx context.Context, companyName string, stage jobharvest.Stage) ([]*jobharvest.Job, error) {
	return s.next.FindJobsForStage(ctx, companyName, stage)
}

// MarkStageCompleted logs the stage transition and delegates.
func (s *LoggingJobService) MarkStageCompleted(ctx context.Context, signatures []string, stage jobharvest.Stage) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("mark stage",
			"stage", string(stage),
			"jobs", len(signatures),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.MarkStageCompleted(ctx, signatures, stage)
}
