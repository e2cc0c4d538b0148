package services

import (
	"context"
	"errors"
	"iter"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/cache"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/services/dto"
	"jobmarket_backend/internal/validator"
	"jobmarket_backend/pkg/apperrors"
)

// ActiveJobsGenerationKey is bumped after every committed job mutation. The
// listing is cached under a key derived from it, so a listing read before a
// mutation can only ever land under a generation nobody reads any more.
const ActiveJobsGenerationKey = "jobs:active:gen"

// ActiveJobsCacheKey is the key of the unfiltered public listing for gen.
func ActiveJobsCacheKey(gen int64) string {
	return "jobs:active:v1:" + strconv.FormatInt(gen, 10)
}

type JobService interface {
	Create(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateJobRequest) (*models.Job, error)
	Update(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, req *dto.UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) error
	SetActive(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, active bool) (*models.Job, error)
	Get(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) (*models.Job, error)
	List(db *gorm.DB, filter repositories.JobFilter) iter.Seq2[models.Job, error]
	ListPublic(ctx context.Context, db *gorm.DB, filter repositories.JobFilter) ([]models.Job, error)
	ListOwnedBy(ctx context.Context, db *gorm.DB, actor auth.Actor) (iter.Seq2[models.Job, error], error)
	RefreshPublicCache(ctx context.Context, db *gorm.DB) (int, error)
}

type JobServiceImpl struct {
	jobRepo   repositories.JobRepository
	userRepo  repositories.UserRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	validator *validator.Validator
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	v *validator.Validator,
) JobService {
	return &JobServiceImpl{
		jobRepo:   jobRepo,
		userRepo:  userRepo,
		cache:     c,
		cacheTTL:  cacheTTL,
		validator: v,
	}
}

func (s *JobServiceImpl) Create(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := auth.Authorize(actor, auth.ActionCreateJob, nil); err != nil {
		return nil, err
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := loadActorUser(tx, s.userRepo, actor); err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		Location:           strings.TrimSpace(req.Location),
		Salary:             optional(req.Salary),
		JobType:            optional(req.JobType),
		Category:           optional(req.Category),
		ExperienceRequired: optional(req.ExperienceRequired),
		OwnerID:            actor.UserID,
		IsActive:           true,
	}
	if err := s.jobRepo.Create(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "owner_id", job.OwnerID)
	return job, nil
}

// Update checks ownership before looking at the payload, so a non-owner is
// refused whatever they send.
func (s *JobServiceImpl) Update(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, req *dto.UpdateJobRequest) (*models.Job, error) {
	if err := auth.Precheck(actor, auth.ActionUpdateJob); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := findJob(tx, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdateJob, auth.OwnedBy(job.OwnerID)); err != nil {
		return nil, err
	}
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(tx, job.ID, patchFields(req)); err != nil {
		return nil, apperrors.InternalError(err)
	}
	updated, err := findJob(tx, s.jobRepo, job.ID)
	if err != nil {
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.CtxInfo(ctx, "Job updated", "job_id", job.ID)
	return updated, nil
}

func (s *JobServiceImpl) Delete(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) error {
	if err := auth.Precheck(actor, auth.ActionDeleteJob); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := findJob(tx, s.jobRepo, jobID)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actor, auth.ActionDeleteJob, auth.OwnedBy(job.OwnerID)); err != nil {
		return err
	}

	if err := s.jobRepo.DeleteCascade(tx, job.ID); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	s.invalidate(ctx)
	logger.CtxInfo(ctx, "Job deleted", "job_id", job.ID)
	return nil
}

// SetActive is the soft close/reopen; the row and its dependents stay.
func (s *JobServiceImpl) SetActive(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint, active bool) (*models.Job, error) {
	if err := auth.Precheck(actor, auth.ActionUpdateJob); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := findJob(tx, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdateJob, auth.OwnedBy(job.OwnerID)); err != nil {
		return nil, err
	}

	if err := s.jobRepo.SetActive(tx, job.ID, active); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	job.IsActive = active

	s.invalidate(ctx)
	logger.CtxInfo(ctx, "Job active flag changed", "job_id", job.ID, "active", active)
	return job, nil
}

// Get hides inactive jobs from everyone but their owner.
func (s *JobServiceImpl) Get(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) (*models.Job, error) {
	if err := auth.Authorize(actor, auth.ActionViewJob, nil); err != nil {
		return nil, err
	}
	job, err := findJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive && !(actor.Authenticated() && actor.UserID == job.OwnerID) {
		return nil, apperrors.ErrJobNotFound
	}
	return job, nil
}

func (s *JobServiceImpl) List(db *gorm.DB, filter repositories.JobFilter) iter.Seq2[models.Job, error] {
	return s.jobRepo.IterActive(db, filter)
}

// ListPublic materializes List. The unfiltered listing is served from the
// cache; cache failures fall through to the database.
func (s *JobServiceImpl) ListPublic(ctx context.Context, db *gorm.DB, filter repositories.JobFilter) ([]models.Job, error) {
	var (
		gen       int64
		cacheable = filter.IsEmpty() && s.cache != nil
	)
	if cacheable {
		var err error
		if gen, err = s.generation(ctx); err != nil {
			logger.CtxWarn(ctx, "Job cache generation read failed", "error", err)
			cacheable = false
		}
	}
	if cacheable {
		var cached []models.Job
		hit, err := s.cache.GetJSON(ctx, ActiveJobsCacheKey(gen), &cached)
		if err != nil {
			logger.CtxWarn(ctx, "Job cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	jobs, err := repositories.Collect(s.List(db, filter))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, ActiveJobsCacheKey(gen), jobs, s.cacheTTL); err != nil {
			logger.CtxWarn(ctx, "Job cache write failed", "error", err)
		}
	}
	return jobs, nil
}

func (s *JobServiceImpl) ListOwnedBy(ctx context.Context, db *gorm.DB, actor auth.Actor) (iter.Seq2[models.Job, error], error) {
	if err := auth.Authorize(actor, auth.ActionListOwnJobs, nil); err != nil {
		return nil, err
	}
	return s.jobRepo.IterByOwner(db, actor.UserID), nil
}

// RefreshPublicCache rebuilds the cached unfiltered listing for the current
// generation.
func (s *JobServiceImpl) RefreshPublicCache(ctx context.Context, db *gorm.DB) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	gen, err := s.generation(ctx)
	if err != nil {
		return 0, err
	}
	jobs, err := repositories.Collect(s.List(db, repositories.JobFilter{}))
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	if err := s.cache.SetJSON(ctx, ActiveJobsCacheKey(gen), jobs, s.cacheTTL); err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func (s *JobServiceImpl) generation(ctx context.Context) (int64, error) {
	var gen int64
	if _, err := s.cache.GetJSON(ctx, ActiveJobsGenerationKey, &gen); err != nil {
		return 0, err
	}
	return gen, nil
}

// invalidate runs after commit. If the bump fails the stale entry is
// dropped directly and expires with its TTL at worst.
func (s *JobServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, ActiveJobsGenerationKey); err != nil {
		logger.CtxWarn(ctx, "Job cache invalidation failed", "error", err)
		if gen, gerr := s.generation(ctx); gerr == nil {
			_ = s.cache.Del(ctx, ActiveJobsCacheKey(gen))
		}
	}
}

// optional trims a field and maps blank to NULL.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func patchFields(req *dto.UpdateJobRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Salary != nil {
		fields["salary"] = optional(req.Salary)
	}
	if req.JobType != nil {
		fields["job_type"] = optional(req.JobType)
	}
	if req.Category != nil {
		fields["category"] = optional(req.Category)
	}
	if req.ExperienceRequired != nil {
		fields["experience_required"] = optional(req.ExperienceRequired)
	}
	return fields
}
