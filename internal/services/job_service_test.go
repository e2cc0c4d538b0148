package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/services/dto"
	"jobmarket_backend/internal/testutil"
	"jobmarket_backend/pkg/apperrors"
)

func validJob() *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Location:    "Nairobi",
		Category:    strPtr("IT"),
		Salary:      strPtr("  "),
	}
}

func TestJobService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "emp", models.RoleEmployer)

	job, err := f.sc.JobService.Create(ctx, f.db, employer, validJob())
	require.NoError(t, err)
	assert.Equal(t, employer.UserID, job.OwnerID)
	assert.True(t, job.IsActive)
	assert.Nil(t, job.Salary, "blank optional field is stored as NULL")
	require.NotNil(t, job.Category)
	assert.Equal(t, "IT", *job.Category)
}

func TestJobService_CreateDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "emp", models.RoleEmployer)
	seeker := f.user(t, "seeker", models.RoleJobseeker)

	_, err := f.sc.JobService.Create(ctx, f.db, seeker, validJob())
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.sc.JobService.Create(ctx, f.db, auth.Anonymous(), validJob())
	assertCode(t, err, apperrors.CodeUnauthorized)

	// token claims a role the account does not have
	_, err = f.sc.JobService.Create(ctx, f.db, auth.NewActor(seeker.UserID, models.RoleEmployer), validJob())
	assertCode(t, err, apperrors.CodeForbidden)

	for _, req := range []*dto.CreateJobRequest{
		{Title: "", Description: "d", Location: "l"},
		{Title: "t", Description: "   ", Location: "l"},
		{Title: "t", Description: "d", Location: ""},
	} {
		_, err = f.sc.JobService.Create(ctx, f.db, employer, req)
		assertCode(t, err, apperrors.CodeValidationFailed)
	}

	assert.Zero(t, testutil.CountWhere(t, f.db, &models.Job{}, "1 = 1"))
}

func TestJobService_UpdateIsPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "emp", models.RoleEmployer)
	job := f.job(t, employer, "Original")

	updated, err := f.sc.JobService.Update(ctx, f.db, employer, job.ID, &dto.UpdateJobRequest{
		Title:    strPtr("Renamed"),
		Category: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, job.Description, updated.Description)
	assert.Equal(t, job.Location, updated.Location)
	assert.Nil(t, updated.Category)
	require.NotNil(t, updated.JobType)
	assert.Equal(t, "Full-time", *updated.JobType)

	_, err = f.sc.JobService.Update(ctx, f.db, employer, job.ID, &dto.UpdateJobRequest{Title: strPtr("  ")})
	assertCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.sc.JobService.Update(ctx, f.db, employer, 9999, &dto.UpdateJobRequest{Title: strPtr("x")})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestJobService_NonOwnerAlwaysForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleEmployer)
	other := f.user(t, "other", models.RoleEmployer)
	seeker := f.user(t, "seeker", models.RoleJobseeker)
	job := f.job(t, owner, "Mine")

	payloads := []*dto.UpdateJobRequest{
		{Title: strPtr("Valid")},
		{Title: strPtr("")},
		{Location: strPtr("   ")},
		{},
	}
	for _, actor := range []auth.Actor{other, seeker} {
		for _, p := range payloads {
			_, err := f.sc.JobService.Update(ctx, f.db, actor, job.ID, p)
			assertCode(t, err, apperrors.CodeForbidden)
		}
		assertCode(t, f.sc.JobService.Delete(ctx, f.db, actor, job.ID), apperrors.CodeForbidden)
		_, err := f.sc.JobService.SetActive(ctx, f.db, actor, job.ID, false)
		assertCode(t, err, apperrors.CodeForbidden)
	}

	got, err := f.sc.JobService.Get(ctx, f.db, auth.Anonymous(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestJobService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleEmployer)
	job := f.job(t, owner, "Doomed")

	const n, m = 3, 2
	for i := range n {
		seeker := f.user(t, "applicant"+string(rune('a'+i)), models.RoleJobseeker)
		_, err := f.sc.ApplicationService.Apply(ctx, f.db, seeker, job.ID)
		require.NoError(t, err)
		if i < m {
			_, err = f.sc.SavedJobService.Save(ctx, f.db, seeker, job.ID)
			require.NoError(t, err)
		}
	}
	require.EqualValues(t, n, testutil.CountWhere(t, f.db, &models.Application{}, "job_id = ?", job.ID))
	require.EqualValues(t, m, testutil.CountWhere(t, f.db, &models.SavedJob{}, "job_id = ?", job.ID))

	require.NoError(t, f.sc.JobService.Delete(ctx, f.db, owner, job.ID))

	assert.Zero(t, testutil.CountWhere(t, f.db, &models.Application{}, "job_id = ?", job.ID))
	assert.Zero(t, testutil.CountWhere(t, f.db, &models.SavedJob{}, "job_id = ?", job.ID))
	_, err := f.sc.JobService.Get(ctx, f.db, owner, job.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestJobService_DeleteFailureKeepsDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleEmployer)
	seeker := f.user(t, "seeker", models.RoleJobseeker)
	job := f.job(t, owner, "Sticky")

	_, err := f.sc.ApplicationService.Apply(ctx, f.db, seeker, job.ID)
	require.NoError(t, err)
	_, err = f.sc.SavedJobService.Save(ctx, f.db, seeker, job.ID)
	require.NoError(t, err)

	testutil.FailDeletesOn(t, f.db, "jobs", errors.New("disk full"))

	assertCode(t, f.sc.JobService.Delete(ctx, f.db, owner, job.ID), apperrors.CodeInternalError)

	assert.EqualValues(t, 1, testutil.CountWhere(t, f.db, &models.Application{}, "job_id = ?", job.ID))
	assert.EqualValues(t, 1, testutil.CountWhere(t, f.db, &models.SavedJob{}, "job_id = ?", job.ID))
	got, err := f.sc.JobService.Get(ctx, f.db, owner, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sticky", got.Title)
}

func TestJobService_SetActiveHidesJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleEmployer)
	seeker := f.user(t, "seeker", models.RoleJobseeker)
	job := f.job(t, owner, "Seasonal")

	closed, err := f.sc.JobService.SetActive(ctx, f.db, owner, job.ID, false)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)

	jobs, err := repositories.Collect(f.sc.JobService.List(f.db, repositories.JobFilter{}))
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = f.sc.JobService.Get(ctx, f.db, seeker, job.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	got, err := f.sc.JobService.Get(ctx, f.db, owner, job.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = f.sc.ApplicationService.Apply(ctx, f.db, seeker, job.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = f.sc.JobService.SetActive(ctx, f.db, owner, job.ID, true)
	require.NoError(t, err)
	_, err = f.sc.ApplicationService.Apply(ctx, f.db, seeker, job.ID)
	assert.NoError(t, err)
}

func TestJobService_ListPublicCacheInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleEmployer)
	f.job(t, owner, "First")

	jobs, err := f.sc.JobService.ListPublic(ctx, f.db, repositories.JobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	var cached []models.Job
	hit, err := f.cache.GetJSON(ctx, services.ActiveJobsCacheKey(0), &cached)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Len(t, cached, 1)

	_, err = f.sc.JobService.Create(ctx, f.db, owner, validJob())
	require.NoError(t, err)

	var gen int64
	hit, err = f.cache.GetJSON(ctx, services.ActiveJobsGenerationKey, &gen)
	require.NoError(t, err)
	require.True(t, hit)
	assert.EqualValues(t, 1, gen, "create must bump the listing generation")

	hit, err = f.cache.GetJSON(ctx, services.ActiveJobsCacheKey(gen), &cached)
	require.NoError(t, err)
	assert.False(t, hit)

	jobs, err = f.sc.JobService.ListPublic(ctx, f.db, repositories.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	hit, err = f.cache.GetJSON(ctx, services.ActiveJobsCacheKey(gen), &cached)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Len(t, cached, 2)

	filtered, err := f.sc.JobService.ListPublic(ctx, f.db, repositories.JobFilter{Category: "it"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}

func TestJobService_ListOwnedBy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner", models.RoleEmployer)
	other := f.user(t, "other", models.RoleEmployer)
	seeker := f.user(t, "seeker", models.RoleJobseeker)
	f.job(t, owner, "A")
	f.job(t, owner, "B")
	f.job(t, other, "C")

	seq, err := f.sc.JobService.ListOwnedBy(ctx, f.db, owner)
	require.NoError(t, err)
	jobs, err := repositories.Collect(seq)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "A", jobs[0].Title)

	_, err = f.sc.JobService.ListOwnedBy(ctx, f.db, seeker)
	assertCode(t, err, apperrors.CodeForbidden)
}
