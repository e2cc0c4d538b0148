package repositories_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewUserRepository()

	require.NoError(t, repo.Create(db, &models.User{Username: "a", Email: "x@example.com", PasswordHash: "h", Role: models.RoleEmployer}))
	err := repo.Create(db, &models.User{Username: "b", Email: "x@example.com", PasswordHash: "h", Role: models.RoleJobseeker})
	assert.ErrorIs(t, err, repositories.ErrUserAlreadyExists)

	user, err := repo.FindByEmail(db, "  X@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "a", user.Username)
	assert.Equal(t, models.RoleEmployer, user.Role)

	usernameTaken, emailTaken, err := repo.IdentityTaken(db, "a", "other@example.com")
	require.NoError(t, err)
	assert.True(t, usernameTaken)
	assert.False(t, emailTaken)

	_, err = repo.FindByID(db, 999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestJobRepository_IterActiveIsFilteredOrderedAndRestartable(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewJobRepository()
	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)

	first := testutil.CreateJob(t, db, owner.ID, "First")
	closed := testutil.CreateJob(t, db, owner.ID, "Closed")
	third := &models.Job{
		Title: "Designer", Description: "d", Location: "Kisumu",
		Category: strPtr("Design"), OwnerID: owner.ID, IsActive: true,
	}
	require.NoError(t, repo.Create(db, third))
	require.NoError(t, repo.SetActive(db, closed.ID, false))

	seq := repo.IterActive(db, repositories.JobFilter{})
	for range 2 {
		jobs, err := repositories.Collect(seq)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, first.ID, jobs[0].ID)
		assert.Equal(t, third.ID, jobs[1].ID)
	}

	jobs, err := repositories.Collect(repo.IterActive(db, repositories.JobFilter{Category: "design"}))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Designer", jobs[0].Title)

	jobs, err = repositories.Collect(repo.IterActive(db, repositories.JobFilter{Location: "Nairobi", JobType: "full-time"}))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, first.ID, jobs[0].ID)

	owned, err := repositories.Collect(repo.IterByOwner(db, owner.ID))
	require.NoError(t, err)
	assert.Len(t, owned, 3)
}

func TestJobRepository_IterStopsEarly(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewJobRepository()
	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)
	for _, title := range []string{"a", "b", "c"} {
		testutil.CreateJob(t, db, owner.ID, title)
	}

	seen := 0
	for job, err := range repo.IterActive(db, repositories.JobFilter{}) {
		require.NoError(t, err)
		seen++
		if job.Title == "b" {
			break
		}
	}
	assert.Equal(t, 2, seen)

	// the connection was released; the pool still works
	_, err := repo.FindByID(db, 1)
	assert.NoError(t, err)
}

func TestJobRepository_UpdateOnlyGivenColumns(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewJobRepository()
	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)
	job := testutil.CreateJob(t, db, owner.ID, "Original")

	require.NoError(t, repo.Update(db, job.ID, map[string]interface{}{"title": "Renamed"}))

	got, err := repo.FindByID(db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, job.Description, got.Description)
	require.NotNil(t, got.Category)
	assert.Equal(t, "IT", *got.Category)

	assert.ErrorIs(t, repo.Update(db, 999, map[string]interface{}{"title": "x"}), repositories.ErrJobNotFound)
}

func TestJobRepository_DeleteCascade(t *testing.T) {
	db := testutil.OpenTestDB(t)
	jobs := repositories.NewJobRepository()
	apps := repositories.NewApplicationRepository()
	saved := repositories.NewSavedJobRepository()

	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)
	s1 := testutil.CreateUser(t, db, "s1", models.RoleJobseeker)
	s2 := testutil.CreateUser(t, db, "s2", models.RoleJobseeker)
	job := testutil.CreateJob(t, db, owner.ID, "Doomed")
	keep := testutil.CreateJob(t, db, owner.ID, "Kept")

	for _, u := range []*models.User{s1, s2} {
		require.NoError(t, apps.Create(db, &models.Application{JobID: job.ID, ApplicantID: u.ID, Status: models.ApplicationStatusPending}))
		require.NoError(t, saved.Create(db, &models.SavedJob{JobID: job.ID, UserID: u.ID}))
	}
	require.NoError(t, apps.Create(db, &models.Application{JobID: keep.ID, ApplicantID: s1.ID, Status: models.ApplicationStatusPending}))

	require.NoError(t, jobs.DeleteCascade(db, job.ID))

	assert.Zero(t, testutil.CountWhere(t, db, &models.Application{}, "job_id = ?", job.ID))
	assert.Zero(t, testutil.CountWhere(t, db, &models.SavedJob{}, "job_id = ?", job.ID))
	assert.Zero(t, testutil.CountWhere(t, db, &models.Job{}, "id = ?", job.ID))
	assert.EqualValues(t, 1, testutil.CountWhere(t, db, &models.Application{}, "job_id = ?", keep.ID))

	assert.ErrorIs(t, jobs.DeleteCascade(db, job.ID), repositories.ErrJobNotFound)
}

func TestJobRepository_DeleteCascadeRollsBackOnFailure(t *testing.T) {
	db := testutil.OpenTestDB(t)
	jobs := repositories.NewJobRepository()
	apps := repositories.NewApplicationRepository()
	saved := repositories.NewSavedJobRepository()

	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)
	seeker := testutil.CreateUser(t, db, "seeker", models.RoleJobseeker)
	job := testutil.CreateJob(t, db, owner.ID, "Sticky")
	require.NoError(t, apps.Create(db, &models.Application{JobID: job.ID, ApplicantID: seeker.ID, Status: models.ApplicationStatusPending}))
	require.NoError(t, saved.Create(db, &models.SavedJob{JobID: job.ID, UserID: seeker.ID}))

	errDisk := errors.New("disk full")
	testutil.FailDeletesOn(t, db, "jobs", errDisk)

	assert.ErrorIs(t, jobs.DeleteCascade(db, job.ID), errDisk)

	assert.EqualValues(t, 1, testutil.CountWhere(t, db, &models.Application{}, "job_id = ?", job.ID))
	assert.EqualValues(t, 1, testutil.CountWhere(t, db, &models.SavedJob{}, "job_id = ?", job.ID))
	assert.EqualValues(t, 1, testutil.CountWhere(t, db, &models.Job{}, "id = ?", job.ID))
}

func TestApplicationRepository_UniquePairAndEnrichedRows(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewApplicationRepository()
	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)
	seeker := testutil.CreateUser(t, db, "seeker", models.RoleJobseeker)
	job := testutil.CreateJob(t, db, owner.ID, "Backend Engineer")

	app := &models.Application{JobID: job.ID, ApplicantID: seeker.ID, Status: models.ApplicationStatusPending}
	require.NoError(t, repo.Create(db, app))

	dup := &models.Application{JobID: job.ID, ApplicantID: seeker.ID, Status: models.ApplicationStatusPending}
	assert.ErrorIs(t, repo.Create(db, dup), repositories.ErrApplicationExists)

	require.NoError(t, repo.UpdateStatus(db, app.ID, models.ApplicationStatusInterview))

	for _, rows := range [][]repositories.ApplicationRow{
		mustRows(t)(repo.ListByApplicant(db, seeker.ID)),
		mustRows(t)(repo.ListByJob(db, job.ID)),
		mustRows(t)(repo.ListByJobOwner(db, owner.ID)),
	} {
		require.Len(t, rows, 1)
		assert.Equal(t, "Backend Engineer", rows[0].JobTitle)
		assert.Equal(t, "seeker", rows[0].ApplicantUsername)
		assert.Equal(t, "seeker@example.com", rows[0].ApplicantEmail)
		assert.Equal(t, models.ApplicationStatusInterview, rows[0].Status)
	}

	require.NoError(t, repo.Delete(db, app.ID))
	assert.ErrorIs(t, repo.Delete(db, app.ID), repositories.ErrApplicationNotFound)
}

func TestSavedJobRepository(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewSavedJobRepository()
	owner := testutil.CreateUser(t, db, "owner", models.RoleEmployer)
	seeker := testutil.CreateUser(t, db, "seeker", models.RoleJobseeker)
	job := testutil.CreateJob(t, db, owner.ID, "Analyst")

	require.NoError(t, repo.Create(db, &models.SavedJob{JobID: job.ID, UserID: seeker.ID}))
	assert.ErrorIs(t, repo.Create(db, &models.SavedJob{JobID: job.ID, UserID: seeker.ID}), repositories.ErrSavedJobExists)

	rows, err := repo.ListByUser(db, seeker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Analyst", rows[0].Title)
	assert.Equal(t, "Nairobi", rows[0].Location)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "IT", *rows[0].Category)

	_, err = repo.FindByUserAndJob(db, owner.ID, job.ID)
	assert.ErrorIs(t, err, repositories.ErrSavedJobNotFound)
}

func mustRows(t *testing.T) func([]repositories.ApplicationRow, error) []repositories.ApplicationRow {
	return func(rows []repositories.ApplicationRow, err error) []repositories.ApplicationRow {
		t.Helper()
		require.NoError(t, err)
		return rows
	}
}
