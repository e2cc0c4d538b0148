package models

// Job is a posting owned by exactly one employer.
type Job struct {
	BaseModel
	Title              string  `gorm:"type:varchar(120);not null" json:"title"`
	Description        string  `gorm:"type:text;not null" json:"description"`
	Location           string  `gorm:"type:varchar(100);not null;index" json:"location"`
	Salary             *string `gorm:"type:varchar(50)" json:"salary"`
	JobType            *string `gorm:"type:varchar(50);index" json:"job_type"`
	Category           *string `gorm:"type:varchar(50);index" json:"category"`
	ExperienceRequired *string `gorm:"type:varchar(50)" json:"experience_required"`
	OwnerID            uint    `gorm:"not null;index" json:"owner_id"`
	IsActive           bool    `gorm:"not null;default:true;index" json:"is_active"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}
