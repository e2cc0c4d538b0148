package services

import (
	"errors"

	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/validator"
	"jobmarket_backend/pkg/apperrors"
)

// validateRequest runs the struct rules and converts failures into a
// VALIDATION_FAILED AppError carrying the per-field messages.
func validateRequest(v *validator.Validator, req interface{}) error {
	if err := v.Validate(req); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			return apperrors.ValidationError(vErr.Errors)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// loadActorUser confirms the token's subject still exists with the role it claims.
func loadActorUser(tx *gorm.DB, users repositories.UserRepository, actor auth.Actor) (*models.User, error) {
	user, err := users.FindByID(tx, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Account no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != actor.Role {
		return nil, apperrors.NewForbiddenError("Role does not match account")
	}
	return user, nil
}

func findJob(db *gorm.DB, jobs repositories.JobRepository, jobID uint) (*models.Job, error) {
	job, err := jobs.FindByID(db, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func commit(tx *gorm.DB) error {
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
