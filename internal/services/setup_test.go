package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/cache"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/testutil"
	"jobmarket_backend/internal/validator"
	"jobmarket_backend/pkg/apperrors"
)

type fixture struct {
	db     *gorm.DB
	sc     *services.ServiceContainer
	cache  *cache.MemoryCache
	tokens *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenTestDB(t)
	c := cache.NewMemoryCache()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return &fixture{
		db:     db,
		sc:     services.NewServiceContainer(tokens, c, time.Minute, validator.New()),
		cache:  c,
		tokens: tokens,
	}
}

func (f *fixture) user(t *testing.T, username string, role models.Role) auth.Actor {
	t.Helper()
	u := testutil.CreateUser(t, f.db, username, role)
	return auth.NewActor(u.ID, u.Role)
}

func (f *fixture) job(t *testing.T, owner auth.Actor, title string) *models.Job {
	t.Helper()
	return testutil.CreateJob(t, f.db, owner.UserID, title)
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	if assert.Error(t, err) {
		appErr, ok := apperrors.AsAppError(err)
		if assert.True(t, ok, "expected AppError, got %T: %v", err, err) {
			assert.Equal(t, code, appErr.Code, "message: %s", appErr.Message)
		}
	}
}

func strPtr(s string) *string { return &s }
