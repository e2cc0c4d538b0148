package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmarket_backend/internal/services"
)

type SavedJobHandler struct {
	*BaseHandler
	savedJobService services.SavedJobService
}

func NewSavedJobHandler(base *BaseHandler, savedJobService services.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{
		BaseHandler:     base,
		savedJobService: savedJobService,
	}
}

func (h *SavedJobHandler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	saved := r.Group("/saved")
	saved.Use(authRequired)
	{
		saved.GET("", h.List)
		saved.POST("/:jobId", h.Save)
		saved.DELETE("/:jobId", h.Unsave)
	}
}

func (h *SavedJobHandler) Save(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	saved, err := h.savedJobService.Save(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *SavedJobHandler) Unsave(c *gin.Context) {
	jobID, err := ParseParamID(c, "jobId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.savedJobService.Unsave(c.Request.Context(), h.GetDB(c), h.Actor(c), jobID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SavedJobHandler) List(c *gin.Context) {
	saved, err := h.savedJobService.ListForUser(c.Request.Context(), h.GetDB(c), h.Actor(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved_jobs": saved, "total": len(saved)})
}
