package models

// User is an account. Role is written on create only.
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(128);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;<-:create" json:"role"`
}
