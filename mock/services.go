package mock

import (
	"context"

	"github.com/fwojciec/jobharvest"
)

var _ jobharvest.JobService = (*JobService)(nil)

// JobService is a mock implementation of jobharvest.JobService.
type JobService struct {
	SaveJobFn            func(ctx context.Context, job *jobharvest.Job) error
	FindJobBySignatureFn func(ctx context.Context, signature string) (*jobharvest.Job, error)
	FindJobsForStageFn   func(ctx context.Context, companyName string, stage jobharvest.Stage) ([]*jobharvest.Job, error)
	MarkStageCompletedFn func(ctx context.Context, signatures []string, stage jobharvest.Stage) error
}

func (s *JobService) SaveJob(ctx context.Context, job *jobharvest.Job) error {
	return s.SaveJobFn(ctx, job)
}

func (s *JobService) FindJobBySignature(ctx context.Context, signature string) (*jobharvest.Job, error) {
	return s.FindJobBySignatureFn(ctx, signature)
}

func (s *JobService) FindJobsForStage(ctx context.Context, companyName string, stage jobharvest.Stage) ([]*jobharvest.Job, error) {
	return s.FindJobsForStageFn(ctx, companyName, stage)
}

func (s *JobService) MarkStageCompleted(ctx context.Context, signatures []string, stage jobharvest.Stage) error {
	return s.MarkStageCompletedFn(ctx, signatures, stage)
}

var _ jobharvest.CompanyService = (*CompanyService)(nil)

// CompanyService is a mock implementation of jobharvest.CompanyService.
type CompanyService struct {
	CreateCompanyFn     func(ctx context.Context, company *jobharvest.Company) error
	FindCompanyByNameFn func(ctx context.Context, name string) (*jobharvest.Company, error)
	FindCompaniesFn     func(ctx context.Context) ([]*jobharvest.Company, error)
}

func (s *CompanyService) CreateCompany(ctx context.Context, company *jobharvest.Company) error {
	return s.CreateCompanyFn(ctx, company)
}

func (s *CompanyService) FindCompanyByName(ctx context.Context, name string) (*jobharvest.Company, error) {
	return s.FindCompanyByNameFn(ctx, name)
}

func (s *CompanyService) FindCompanies(ctx context.Context) ([]*jobharvest.Company, error) {
	return s.FindCompaniesFn(ctx)
}

var _ jobharvest.TechnologyService = (*TechnologyService)(nil)

// TechnologyService is a mock implementation of jobharvest.TechnologyService.
type TechnologyService struct {
	CreateTechnologyFn          func(ctx context.Context, tech *jobharvest.Technology) error
	FindTechnologyByNameFn      func(ctx context.Context, name string) (*jobharvest.Technology, error)
	CreateTechnologyAliasFn     func(ctx context.Context, alias *jobharvest.TechnologyAlias) error
	FindTechnologyByAliasFn     func(ctx context.Context, alias string) (*jobharvest.Technology, error)
	RecordUnmatchedTechnologyFn func(ctx context.Context, label, companyName string) error
}

func (s *TechnologyService) CreateTechnology(ctx context.Context, tech *jobharvest.Technology) error {
	return s.CreateTechnologyFn(ctx, tech)
}

func (s *TechnologyService) FindTechnologyByName(ctx context.Context, name string) (*jobharvest.Technology, error) {
	return s.FindTechnologyByNameFn(ctx, name)
}

func (s *TechnologyService) CreateTechnologyAlias(ctx context.Context, alias *jobharvest.TechnologyAlias) error {
	return s.CreateTechnologyAliasFn(ctx, alias)
}

func (s *TechnologyService) FindTechnologyByAlias(ctx context.Context, alias string) (*jobharvest.Technology, error) {
	return s.FindTechnologyByAliasFn(ctx, alias)
}

func (s *TechnologyService) RecordUnmatchedTechnology(ctx context.Context, label, companyName string) error {
	return s.RecordUnmatchedTechnologyFn(ctx, label, companyName)
}

var _ jobharvest.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of jobharvest.CatalogService.
type CatalogService struct {
	JobExistsFn func(ctx context.Context, signature string) (bool, error)
	CreateJobFn func(ctx context.Context, job *jobharvest.Job, companyID string) error
	UpdateJobFn func(ctx context.Context, job *jobharvest.Job, companyID string) error
}

func (s *CatalogService) JobExists(ctx context.Context, signature string) (bool, error) {
	return s.JobExistsFn(ctx, signature)
}

func (s *CatalogService) CreateJob(ctx context.Context, job *jobharvest.Job, companyID string) error {
	return s.CreateJobFn(ctx, job, companyID)
}

func (s *CatalogService) UpdateJob(ctx context.Context, job *jobharvest.Job, companyID string) error {
	return s.UpdateJobFn(ctx, job, companyID)
}
