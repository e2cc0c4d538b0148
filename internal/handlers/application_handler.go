package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	jobs := r.Group("/jobs")
	jobs.Use(authRequired)
	{
		jobs.POST("/:jobId/apply", h.Apply)
		jobs.GET("/:jobId/applications", h.ListJobApplications)
	}

	apps := r.Group("/applications")
	apps.Use(authRequired)
	{
		apps.GET("", h.ListApplications)
		apps.PUT("/:applicationId/status", h.UpdateStatus)
		apps.DELETE("/:applicationId", h.Withdraw)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListApplications returns the employer's incoming applications or the
// jobseeker's own, depending on the caller's role.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actor := h.Actor(c)

	var (
		apps []dto.ApplicationResponse
		err  error
	)
	if actor.Is(models.RoleEmployer) {
		apps, err = h.applicationService.ListForEmployer(c.Request.Context(), h.GetDB(c), actor)
	} else {
		apps, err = h.applicationService.ListForApplicant(c.Request.Context(), h.GetDB(c), actor)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) ListJobApplications(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	apps, err := h.applicationService.ListForJob(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	applicationID, err := ParseParamID(c, "applicationId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	app, err := h.applicationService.SetStatus(c.Request.Context(), h.GetDB(c), h.Actor(c), applicationID, req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	applicationID, err := ParseParamID(c, "applicationId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.applicationService.Withdraw(c.Request.Context(), h.GetDB(c), h.Actor(c), applicationID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
