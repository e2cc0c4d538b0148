package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"jobmarket_backend/internal/models"
)

var (
	ErrSavedJobNotFound = errors.New("saved job not found")
	ErrSavedJobExists   = errors.New("job already saved")
)

// SavedJobRow projects the saved job's title, location and category.
type SavedJobRow struct {
	JobID     uint
	Title     string
	Location  string
	Category  *string
	CreatedAt time.Time
}

type SavedJobRepository interface {
	Create(db *gorm.DB, saved *models.SavedJob) error
	FindByUserAndJob(db *gorm.DB, userID, jobID uint) (*models.SavedJob, error)
	Delete(db *gorm.DB, id uint) error
	ListByUser(db *gorm.DB, userID uint) ([]SavedJobRow, error)
}

type SavedJobRepositoryImpl struct{}

func NewSavedJobRepository() SavedJobRepository {
	return &SavedJobRepositoryImpl{}
}

func (r *SavedJobRepositoryImpl) Create(db *gorm.DB, saved *models.SavedJob) error {
	if err := db.Omit("Job", "User").Create(saved).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSavedJobExists
		}
		return err
	}
	return nil
}

func (r *SavedJobRepositoryImpl) FindByUserAndJob(db *gorm.DB, userID, jobID uint) (*models.SavedJob, error) {
	var saved models.SavedJob
	err := db.Where("user_id = ? AND job_id = ?", userID, jobID).First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavedJobNotFound
		}
		return nil, err
	}
	return &saved, nil
}

func (r *SavedJobRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.SavedJob{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSavedJobNotFound
	}
	return nil
}

func (r *SavedJobRepositoryImpl) ListByUser(db *gorm.DB, userID uint) ([]SavedJobRow, error) {
	rows := make([]SavedJobRow, 0)
	err := db.Table("saved_jobs").
		Select("saved_jobs.job_id, jobs.title, jobs.location, jobs.category, saved_jobs.created_at").
		Joins("JOIN jobs ON jobs.id = saved_jobs.job_id").
		Where("saved_jobs.user_id = ?", userID).
		Order("saved_jobs.id ASC").
		Scan(&rows).Error
	return rows, err
}
