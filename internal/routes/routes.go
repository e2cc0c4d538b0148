package routes

import (
	"github.com/gin-gonic/gin"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/handlers"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/middleware"
)

// RegisterRoutes mounts every HTTP route under /api/v1 plus /healthz.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.Handlers,
	tokens *auth.TokenManager,
	loginLimiter *middleware.ClientLimiter,
) {
	ginRouter.GET("/healthz", handlers.Health)

	authRequired := middleware.AuthMiddleware(tokens)
	authOptional := middleware.OptionalAuth(tokens)
	loginLimit := middleware.RateLimitMiddleware(loginLimiter)

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authRequired, loginLimit)
		appHandlers.JobHandler.RegisterRoutes(api, authRequired, authOptional)
		appHandlers.ApplicationHandler.RegisterRoutes(api, authRequired)
		appHandlers.SavedJobHandler.RegisterRoutes(api, authRequired)
	}

	logger.Info("HTTP routes registered", "count", len(ginRouter.Routes()))
}
