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
	"jobmarket_backend/internal/validator"
	"jobmarket_backend/pkg/apperrors"
)

type ApplicationService interface {
	Apply(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) (*models.Application, error)
	SetStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, applicationID uint, status string) (*models.Application, error)
	Withdraw(ctx context.Context, db *gorm.DB, actor auth.Actor, applicationID uint) error
	ListForApplicant(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.ApplicationResponse, error)
	ListForJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) ([]dto.ApplicationResponse, error)
	ListForEmployer(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.ApplicationResponse, error)
}

type ApplicationServiceImpl struct {
	appRepo   repositories.ApplicationRepository
	jobRepo   repositories.JobRepository
	userRepo  repositories.UserRepository
	validator *validator.Validator
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	v *validator.Validator,
) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:   appRepo,
		jobRepo:   jobRepo,
		userRepo:  userRepo,
		validator: v,
	}
}

// Apply runs the duplicate check and the insert in one transaction; the
// unique index on (job_id, applicant_id) catches anything that slips past.
func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) (*models.Application, error) {
	if err := auth.Authorize(actor, auth.ActionApply, nil); err != nil {
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

	job, err := findJob(tx, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, apperrors.ErrJobNotFound
	}

	_, err = s.appRepo.FindByJobAndApplicant(tx, job.ID, actor.UserID)
	switch {
	case err == nil:
		return nil, apperrors.ErrAlreadyApplied
	case !errors.Is(err, repositories.ErrApplicationNotFound):
		return nil, apperrors.InternalError(err)
	}

	app := &models.Application{
		JobID:       job.ID,
		ApplicantID: actor.UserID,
		Status:      models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(tx, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Application submitted", "application_id", app.ID, "job_id", job.ID)
	return app, nil
}

// SetStatus order: role, status value, existence, ownership, transition.
func (s *ApplicationServiceImpl) SetStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, applicationID uint, status string) (*models.Application, error) {
	if err := auth.Precheck(actor, auth.ActionSetApplicationStatus); err != nil {
		return nil, err
	}
	if err := validateRequest(s.validator, &dto.UpdateApplicationStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	next, err := models.ParseApplicationStatus(status)
	if err != nil {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.appRepo.FindByID(tx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	job, err := findJob(tx, s.jobRepo, app.JobID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionSetApplicationStatus, auth.OwnedBy(job.OwnerID)); err != nil {
		return nil, err
	}

	if err := app.Status.CanTransitionTo(next); err != nil {
		return nil, apperrors.ErrInvalidStatus("application", "Cannot move application from "+string(app.Status)+" to "+string(next))
	}

	if err := s.appRepo.UpdateStatus(tx, app.ID, next); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Application status changed",
		"application_id", app.ID,
		"from", string(app.Status),
		"to", string(next),
	)
	app.Status = next
	return app, nil
}

// Withdraw deletes the application whatever its status.
func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, db *gorm.DB, actor auth.Actor, applicationID uint) error {
	if err := auth.Precheck(actor, auth.ActionWithdrawApplication); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	app, err := s.appRepo.FindByID(tx, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.InternalError(err)
	}
	if err := auth.Authorize(actor, auth.ActionWithdrawApplication, auth.OwnedBy(app.ApplicantID)); err != nil {
		return err
	}

	if err := s.appRepo.Delete(tx, app.ID); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrApplicationNotFound
		}
		return apperrors.InternalError(err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Application withdrawn", "application_id", app.ID)
	return nil
}

func (s *ApplicationServiceImpl) ListForApplicant(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.ApplicationResponse, error) {
	if err := auth.Authorize(actor, auth.ActionListOwnApplications, nil); err != nil {
		return nil, err
	}
	rows, err := s.appRepo.ListByApplicant(db, actor.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewApplicationResponses(rows), nil
}

func (s *ApplicationServiceImpl) ListForJob(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID uint) ([]dto.ApplicationResponse, error) {
	if err := auth.Precheck(actor, auth.ActionListJobApplications); err != nil {
		return nil, err
	}
	job, err := findJob(db, s.jobRepo, jobID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionListJobApplications, auth.OwnedBy(job.OwnerID)); err != nil {
		return nil, err
	}

	rows, err := s.appRepo.ListByJob(db, job.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewApplicationResponses(rows), nil
}

// ListForEmployer spans every job the employer owns.
func (s *ApplicationServiceImpl) ListForEmployer(ctx context.Context, db *gorm.DB, actor auth.Actor) ([]dto.ApplicationResponse, error) {
	if err := auth.Precheck(actor, auth.ActionListJobApplications); err != nil {
		return nil, err
	}
	rows, err := s.appRepo.ListByJobOwner(db, actor.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewApplicationResponses(rows), nil
}
