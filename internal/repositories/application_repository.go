package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"jobmarket_backend/internal/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

// ApplicationRow is an application joined with its job title and applicant identity.
type ApplicationRow struct {
	ID                uint
	JobID             uint
	JobTitle          string
	ApplicantID       uint
	ApplicantUsername string
	ApplicantEmail    string
	Status            models.ApplicationStatus
	CreatedAt         time.Time
}

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id uint) (*models.Application, error)
	FindByJobAndApplicant(db *gorm.DB, jobID, applicantID uint) (*models.Application, error)
	UpdateStatus(db *gorm.DB, id uint, status models.ApplicationStatus) error
	Delete(db *gorm.DB, id uint) error
	ListByApplicant(db *gorm.DB, applicantID uint) ([]ApplicationRow, error)
	ListByJob(db *gorm.DB, jobID uint) ([]ApplicationRow, error)
	ListByJobOwner(db *gorm.DB, ownerID uint) ([]ApplicationRow, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	if err := db.Omit("Job", "Applicant").Create(app).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Application, error) {
	var app models.Application
	if err := db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByJobAndApplicant(db *gorm.DB, jobID, applicantID uint) (*models.Application, error) {
	var app models.Application
	err := db.Where("job_id = ? AND applicant_id = ?", jobID, applicantID).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id uint, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.Application{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) rows(db *gorm.DB) *gorm.DB {
	return db.Table("applications").
		Select(`applications.id, applications.job_id, jobs.title AS job_title,
			applications.applicant_id, users.username AS applicant_username,
			users.email AS applicant_email, applications.status, applications.created_at`).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Joins("JOIN users ON users.id = applications.applicant_id").
		Order("applications.id ASC")
}

func (r *ApplicationRepositoryImpl) ListByApplicant(db *gorm.DB, applicantID uint) ([]ApplicationRow, error) {
	rows := make([]ApplicationRow, 0)
	err := r.rows(db).Where("applications.applicant_id = ?", applicantID).Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepositoryImpl) ListByJob(db *gorm.DB, jobID uint) ([]ApplicationRow, error) {
	rows := make([]ApplicationRow, 0)
	err := r.rows(db).Where("applications.job_id = ?", jobID).Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepositoryImpl) ListByJobOwner(db *gorm.DB, ownerID uint) ([]ApplicationRow, error) {
	rows := make([]ApplicationRow, 0)
	err := r.rows(db).Where("jobs.owner_id = ?", ownerID).Scan(&rows).Error
	return rows, err
}
