package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/validator"
)

// Handlers groups every HTTP handler.
type Handlers struct {
	AuthHandler        *AuthHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	SavedJobHandler    *SavedJobHandler
}

func NewHandlers(sc *services.ServiceContainer, v *validator.Validator) *Handlers {
	base := NewBaseHandler(v)

	return &Handlers{
		AuthHandler:        NewAuthHandler(base, sc.AuthService),
		JobHandler:         NewJobHandler(base, sc.JobService),
		ApplicationHandler: NewApplicationHandler(base, sc.ApplicationService),
		SavedJobHandler:    NewSavedJobHandler(base, sc.SavedJobService),
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
