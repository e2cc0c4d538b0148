package repositories

import (
	"errors"
	"iter"

	"gorm.io/gorm"

	"jobmarket_backend/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

// JobFilter narrows the active-job listing. Empty fields are ignored.
type JobFilter struct {
	Category string
	Location string
	JobType  string
}

func (f JobFilter) IsEmpty() bool {
	return f.Category == "" && f.Location == "" && f.JobType == ""
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id uint) (*models.Job, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
	SetActive(db *gorm.DB, id uint, active bool) error
	DeleteCascade(db *gorm.DB, id uint) error
	IterActive(db *gorm.DB, filter JobFilter) iter.Seq2[models.Job, error]
	IterByOwner(db *gorm.DB, ownerID uint) iter.Seq2[models.Job, error]
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Omit("Owner").Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Update writes only the given columns.
func (r *JobRepositoryImpl) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) SetActive(db *gorm.DB, id uint, active bool) error {
	result := db.Model(&models.Job{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// DeleteCascade removes the job with its applications and saved entries in
// one transaction (a savepoint when db is already a transaction).
func (r *JobRepositoryImpl) DeleteCascade(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Job{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}

// IterActive yields active jobs in insertion order. Every range re-runs the query.
func (r *JobRepositoryImpl) IterActive(db *gorm.DB, filter JobFilter) iter.Seq2[models.Job, error] {
	return streamRows[models.Job](func() *gorm.DB {
		q := db.Model(&models.Job{}).Where("is_active = ?", true)
		if filter.Category != "" {
			q = q.Where("LOWER(category) = LOWER(?)", filter.Category)
		}
		if filter.Location != "" {
			q = q.Where("LOWER(location) = LOWER(?)", filter.Location)
		}
		if filter.JobType != "" {
			q = q.Where("LOWER(job_type) = LOWER(?)", filter.JobType)
		}
		return q.Order("id ASC")
	})
}

func (r *JobRepositoryImpl) IterByOwner(db *gorm.DB, ownerID uint) iter.Seq2[models.Job, error] {
	return streamRows[models.Job](func() *gorm.DB {
		return db.Model(&models.Job{}).Where("owner_id = ?", ownerID).Order("id ASC")
	})
}
