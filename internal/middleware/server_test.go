package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/models"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		actor := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID})
	})
	return r
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(CORSMiddleware([]string{"http://app.test/"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://app.test")
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://other.test")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	wildcard := newEngine(CORSMiddleware([]string{"*"}))
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://other.test")
	wildcard.ServeHTTP(w, req)
	assert.Equal(t, "http://other.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newEngine(RequestIDMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestAuthMiddlewares(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	valid, _, err := tokens.GenerateToken(7, models.RoleJobseeker)
	require.NoError(t, err)

	required := newEngine(AuthMiddleware(tokens))
	optional := newEngine(OptionalAuth(tokens))

	cases := []struct {
		name   string
		engine *gin.Engine
		header string
		want   int
	}{
		{"required without token", required, "", http.StatusUnauthorized},
		{"required with token", required, "Bearer " + valid, http.StatusOK},
		{"required with garbage", required, "Bearer nope", http.StatusUnauthorized},
		{"optional without token", optional, "", http.StatusOK},
		{"optional with token", optional, "Bearer " + valid, http.StatusOK},
		{"optional with garbage", optional, "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			tc.engine.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
