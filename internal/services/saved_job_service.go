package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/services/dto"
	"jobmarket_backend/pkg/apperrors"
)

type SavedJobService interface {
	Save(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) (*models.SavedJob, error)
	Unsave(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) error
	ListForUser(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.SavedJobResponse, error)
}

type SavedJobServiceImpl struct {
	savedRepo repositories.SavedJobRepository
	jobRepo   repositories.JobRepository
}

func NewSavedJobService(savedRepo repositories.SavedJobRepository, jobRepo repositories.JobRepository) SavedJobService {
	return &SavedJobServiceImpl{
		savedRepo: savedRepo,
		jobRepo:   jobRepo,
	}
}

func (s *SavedJobServiceImpl) Save(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) (*models.SavedJob, error) {
	if err := auth.Authorize(actor, auth.ActionSaveJob, nil); err != nil {
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

	_, err = s.savedRepo.FindByUserAndJob(tx, actor.UserID, job.ID)
	switch {
	case err == nil:
		return nil, apperrors.ErrAlreadySaved
	case !errors.Is(err, repositories.ErrSavedJobNotFound):
		return nil, apperrors.InternalError(err)
	}

	saved := &models.SavedJob{JobID: job.ID, UserID: actor.UserID}
	if err := s.savedRepo.Create(tx, saved); err != nil {
		if errors.Is(err, repositories.ErrSavedJobExists) {
			return nil, apperrors.ErrAlreadySaved
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Job saved", "job_id", job.ID)
	return saved, nil
}

func (s *SavedJobServiceImpl) Unsave(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) error {
	if err := auth.Precheck(actor, auth.ActionUnsaveJob); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	saved, err := s.savedRepo.FindByUserAndJob(tx, actor.UserID, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrSavedJobNotFound) {
			return apperrors.ErrSavedJobNotFound
		}
		return apperrors.InternalError(err)
	}
	if err := auth.Authorize(actor, auth.ActionUnsaveJob, auth.OwnedBy(saved.UserID)); err != nil {
		return err
	}

	if err := s.savedRepo.Delete(tx, saved.ID); err != nil {
		if errors.Is(err, repositories.ErrSavedJobNotFound) {
			return apperrors.ErrSavedJobNotFound
		}
		return apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Job unsaved", "job_id", jobID)
	return nil
}

func (s *SavedJobServiceImpl) ListForUser(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.SavedJobResponse, error) {
	if err := auth.Authorize(actor, auth.ActionListSavedJobs, nil); err != nil {
		return nil, err
	}
	rows, err := s.savedRepo.ListByUser(db, actor.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewSavedJobResponses(rows), nil
}
