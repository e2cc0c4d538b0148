package models

// Application links a jobseeker to a job. (job_id, applicant_id) is unique.
type Application struct {
	BaseModel
	JobID       uint              `gorm:"not null;uniqueIndex:idx_application_job_applicant" json:"job_id"`
	ApplicantID uint              `gorm:"not null;uniqueIndex:idx_application_job_applicant;index" json:"applicant_id"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Job       *Job  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Applicant *User `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"-"`
}
