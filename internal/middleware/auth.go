package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/pkg/apperrors"
)

const actorKey = "actor"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		actor, err := tokens.ParseToken(raw)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		actor, err := tokens.ParseToken(raw)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// ActorFrom returns the request's actor, anonymous when none was set.
func ActorFrom(c *gin.Context) auth.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(auth.Actor); ok {
			return actor
		}
	}
	return auth.Anonymous()
}

func setActor(c *gin.Context, actor auth.Actor) {
	c.Set(actorKey, actor)
	ctx := logger.WithUserID(c.Request.Context(), actor.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return raw, raw != ""
}
