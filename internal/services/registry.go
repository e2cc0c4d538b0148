package services

import (
	"time"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/cache"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/validator"
)

// ServiceContainer holds every service the handlers use.
type ServiceContainer struct {
	AuthService        AuthService
	JobService         JobService
	ApplicationService ApplicationService
	SavedJobService    SavedJobService
}

func NewServiceContainer(
	tokens *auth.TokenManager,
	c cache.Cache,
	jobsCacheTTL time.Duration,
	v *validator.Validator,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	appRepo := repositories.NewApplicationRepository()
	savedRepo := repositories.NewSavedJobRepository()

	return &ServiceContainer{
		AuthService:        NewAuthService(userRepo, tokens, v),
		JobService:         NewJobService(jobRepo, userRepo, c, jobsCacheTTL, v),
		ApplicationService: NewApplicationService(appRepo, jobRepo, userRepo, v),
		SavedJobService:    NewSavedJobService(savedRepo, jobRepo),
	}
}
