package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/services/dto"
	"jobmarket_backend/pkg/apperrors"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

// Role checks live in the services; the groups only decide whether a
// token is required.
func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup, authRequired, authOptional gin.HandlerFunc) {
	public := r.Group("/jobs")
	public.Use(authOptional)
	{
		public.GET("", h.ListJobs)
		public.GET("/:jobId", h.GetJob)
	}

	jobs := r.Group("/jobs")
	jobs.Use(authRequired)
	{
		jobs.POST("", h.CreateJob)
		jobs.GET("/my", h.ListMyJobs)
		jobs.PUT("/:jobId", h.UpdateJob)
		jobs.DELETE("/:jobId", h.DeleteJob)
		jobs.PUT("/:jobId/active", h.SetJobActive)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	filter := repositories.JobFilter{
		Category: query.Category,
		Location: query.Location,
		JobType:  query.JobType,
	}
	jobs, err := h.jobService.ListPublic(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobsResponse{Jobs: jobs, Total: len(jobs)})
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	seq, err := h.jobService.ListOwnedBy(c.Request.Context(), h.GetDB(c), h.Actor(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	jobs, err := repositories.Collect(seq)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, jobsResponse{Jobs: jobs, Total: len(jobs)})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), h.GetDB(c), h.Actor(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) SetJobActive(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.SetJobActiveRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.SetActive(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID, *req.Active)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type jobsResponse struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
}
