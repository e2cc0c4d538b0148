package models

import "time"

// SavedJob is a bookmark. (job_id, user_id) is unique; rows are never updated.
type SavedJob struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID     uint      `gorm:"not null;uniqueIndex:idx_saved_job_user" json:"job_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_job_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Job  *Job  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
