package pipeline_test

import (
	"context"
	"testing"

	"github.com/fwojciec/jobharvest"
	"github.com/fwojciec/jobharvest/mock"
	"github.com/fwojciec/jobharvest/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillStage(t *testing.T) {
	t.Parallel()

	t.Run("resolves labels through canonical name then alias", func(t *testing.T) {
		t.Parallel()

		job := stagedJob("acme", "backend-engineer")
		job.Technologies = []string{"Go", "golang", "COBOL-2077"}

		var unmatched []string
		var saved *jobharvest.Job

		stage := &pipeline.SkillStage{
			Jobs: &mock.JobService{
				FindJobsForStageFn: func(_ context.Context, _ string, stage jobharvest.Stage) ([]*jobharvest.Job, error) {
					require.Equal(t, jobharvest.StageSkills, stage)
					return []*jobharvest.Job{job}, nil
				},
				SaveJobFn: func(_ context.Context, j *jobharvest.Job) error {
					saved = j
					return nil
				},
				MarkStageCompletedFn: func(context.Context, []string, jobharvest.Stage) error { return nil },
			},
			Technologies: &mock.TechnologyService{
				FindTechnologyByNameFn: func(_ context.Context, name string) (*jobharvest.Technology, error) {
					if name == "Go" {
						return &jobharvest.Technology{ID: 1, Name: "Go"}, nil
					}
					return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "no technology %q", name)
				},
				FindTechnologyByAliasFn: func(_ context.Context, alias string) (*jobharvest.Technology, error) {
					if alias == "golang" {
						return &jobharvest.Technology{ID: 1, Name: "Go"}, nil
					}
					return nil, jobharvest.Errorf(jobharvest.ENOTFOUND, "no alias %q", alias)
				},
				RecordUnmatchedTechnologyFn: func(_ context.Context, label, companyName string) error {
					assert.Equal(t, "acme", companyName)
					unmatched = append(unmatched, label)
					return nil
				},
			},
		}

		_, results := stage.Run(context.Background(), []*jobharvest.Company{testCompany("acme")})
		require.True(t, results["acme"].IsSuccess())

		// "Go" and its alias collapse to one canonical entry; the unknown
		// label is recorded and dropped.
		require.NotNil(t, saved)
		assert.Equal(t, []string{"Go"}, saved.Technologies)
		assert.Equal(t, []string{"COBOL-2077"}, unmatched)
	})

	t.Run("storage failure during lookup fails the company", func(t *testing.T) {
		t.Parallel()

		job := stagedJob("acme", "backend-engineer")
		job.Technologies = []string{"Go"}

		stage := &pipeline.SkillStage{
			Jobs: &mock.JobService{
				FindJobsForStageFn: func(context.Context, string, jobharvest.Stage) ([]*jobharvest.Job, error) {
					return []*jobharvest.Job{job}, nil
				},
			},
			Technologies: &mock.TechnologyService{
				FindTechnologyByNameFn: func(context.Context, string) (*jobharvest.Technology, error) {
					return nil, jobharvest.Errorf(jobharvest.ECONNECTION, "database gone")
				},
			},
		}

		_, results := stage.Run(context.Background(), []*jobharvest.Company{testCompany("acme")})
		require.True(t, results["acme"].IsFailure())
		assert.Contains(t, results["acme"].Error, "database gone")
	})

	t.Run("job with no labels still completes the stage", func(t *testing.T) {
		t.Parallel()

		job := stagedJob("acme", "backend-engineer")

		var marked []string
		stage := &pipeline.SkillStage{
			Jobs: &mock.JobService{
				FindJobsForStageFn: func(context.Context, string, jobharvest.Stage) ([]*jobharvest.Job, error) {
					return []*jobharvest.Job{job}, nil
				},
				SaveJobFn: func(context.Context, *jobharvest.Job) error { return nil },
				MarkStageCompletedFn: func(_ context.Context, signatures []string, _ jobharvest.Stage) error {
					marked = append(marked, signatures...)
					return nil
				},
			},
			Technologies: &mock.TechnologyService{},
		}

		_, results := stage.Run(context.Background(), []*jobharvest.Company{testCompany("acme")})
		require.True(t, results["acme"].IsSuccess())
		assert.Equal(t, []string{job.Signature}, marked)
	})
}
