// Package testutil opens throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jobmarket_backend/internal/config"
	"jobmarket_backend/internal/database"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/models"
)

const DefaultPassword = "password123"

// OpenTestDB returns a migrated in-memory SQLite database private to t.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, false)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with DefaultPassword, hashed at minimum cost.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error, "create user %s", username)
	return user
}

// CreateJob inserts an active job owned by ownerID.
func CreateJob(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Job {
	t.Helper()

	category := "IT"
	jobType := "Full-time"
	job := &models.Job{
		Title:       title,
		Description: title + " description",
		Location:    "Nairobi",
		Category:    &category,
		JobType:     &jobType,
		OwnerID:     ownerID,
		IsActive:    true,
	}
	require.NoError(t, db.Omit("Owner").Create(job).Error, "create job %s", title)
	return job
}

// CountWhere counts rows of model matching the condition.
func CountWhere(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// FailDeletesOn makes every DELETE against table fail with err until the test ends.
func FailDeletesOn(t *testing.T, db *gorm.DB, table string, err error) {
	t.Helper()
	name := "testutil:fail_delete_" + table
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(err)
		}
	}))
	t.Cleanup(func() {
		_ = db.Callback().Delete().Remove(name)
	})
}
