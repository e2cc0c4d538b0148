package main

import (
	"context"
	"flag"

	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/config"
	"jobmarket_backend/internal/database"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/services"
	"jobmarket_backend/internal/services/dto"
	"jobmarket_backend/internal/validator"
)

const seedPassword = "password123"

type seedJob struct {
	owner string
	req   dto.CreateJobRequest
}

func strPtr(s string) *string { return &s }

var seedJobs = []seedJob{
	{owner: "employer1", req: dto.CreateJobRequest{
		Title:              "Software Engineer",
		Description:        "Develop and maintain software solutions.",
		Location:           "Nairobi",
		Salary:             strPtr("100,000 KES"),
		JobType:            strPtr("Full-time"),
		Category:           strPtr("IT"),
		ExperienceRequired: strPtr("2 years"),
	}},
	{owner: "employer2", req: dto.CreateJobRequest{
		Title:              "Data Analyst",
		Description:        "Analyze and interpret complex data sets.",
		Location:           "Mombasa",
		Salary:             strPtr("80,000 KES"),
		JobType:            strPtr("Full-time"),
		Category:           strPtr("Data"),
		ExperienceRequired: strPtr("1 year"),
	}},
	{owner: "employer1", req: dto.CreateJobRequest{
		Title:              "Graphic Designer",
		Description:        "Create engaging and on-brand graphics.",
		Location:           "Kisumu",
		Salary:             strPtr("60,000 KES"),
		JobType:            strPtr("Part-time"),
		Category:           strPtr("Design"),
		ExperienceRequired: strPtr("3 years"),
	}},
}

func main() {
	reset := flag.Bool("reset", true, "drop and recreate all tables before seeding")
	flag.Parse()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	db, err := database.Open(cfg.Database, false)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if *reset {
		if err := db.Migrator().DropTable(&models.SavedJob{}, &models.Application{}, &models.Job{}, &models.User{}); err != nil {
			logger.Fatal("Failed to drop tables", "error", err)
		}
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seed(context.Background(), db, cfg); err != nil {
		logger.Fatal("Seeding failed", "error", err)
	}
	logger.Info("Database seeded successfully")
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	sc := services.NewServiceContainer(
		auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL()),
		nil,
		0,
		validator.New(),
	)

	actors := make(map[string]auth.Actor)
	for _, u := range []struct{ name, role string }{
		{"employer1", "employer"},
		{"employer2", "employer"},
		{"jobseeker1", "jobseeker"},
		{"jobseeker2", "jobseeker"},
	} {
		user, err := sc.AuthService.Register(ctx, db, &dto.RegisterRequest{
			Username: u.name,
			Email:    u.name + "@example.com",
			Password: seedPassword,
			Role:     u.role,
		})
		if err != nil {
			return err
		}
		actors[u.name] = auth.NewActor(user.ID, user.Role)
	}

	jobs := make([]*models.Job, 0, len(seedJobs))
	for _, sj := range seedJobs {
		req := sj.req
		job, err := sc.JobService.Create(ctx, db, actors[sj.owner], &req)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}

	applications := []struct {
		applicant string
		job       int
		status    models.ApplicationStatus
	}{
		{"jobseeker1", 0, models.ApplicationStatusPending},
		{"jobseeker2", 1, models.ApplicationStatusAccepted},
		{"jobseeker1", 2, models.ApplicationStatusRejected},
	}
	for _, a := range applications {
		app, err := sc.ApplicationService.Apply(ctx, db, actors[a.applicant], jobs[a.job].ID)
		if err != nil {
			return err
		}
		if a.status == models.ApplicationStatusPending {
			continue
		}
		owner := auth.NewActor(jobs[a.job].OwnerID, models.RoleEmployer)
		if _, err := sc.ApplicationService.SetStatus(ctx, db, owner, app.ID, string(a.status)); err != nil {
			return err
		}
	}

	for _, s := range []struct {
		user string
		job  int
	}{
		{"jobseeker1", 1},
		{"jobseeker2", 0},
	} {
		if _, err := sc.SavedJobService.Save(ctx, db, actors[s.user], jobs[s.job].ID); err != nil {
			return err
		}
	}
	return nil
}
