package dto

type CreateJobRequest struct {
	Title              string  `json:"title" validate:"notblank,max=120"`
	Description        string  `json:"description" validate:"notblank"`
	Location           string  `json:"location" validate:"notblank,max=100"`
	Salary             *string `json:"salary" validate:"omitnil,max=50"`
	JobType            *string `json:"job_type" validate:"omitnil,max=50"`
	Category           *string `json:"category" validate:"omitnil,max=50"`
	ExperienceRequired *string `json:"experience_required" validate:"omitnil,max=50"`
}

// UpdateJobRequest is a partial update: nil fields are left untouched. An
// empty string clears an optional field.
type UpdateJobRequest struct {
	Title              *string `json:"title" validate:"omitnil,notblank,max=120"`
	Description        *string `json:"description" validate:"omitnil,notblank"`
	Location           *string `json:"location" validate:"omitnil,notblank,max=100"`
	Salary             *string `json:"salary" validate:"omitnil,max=50"`
	JobType            *string `json:"job_type" validate:"omitnil,max=50"`
	Category           *string `json:"category" validate:"omitnil,max=50"`
	ExperienceRequired *string `json:"experience_required" validate:"omitnil,max=50"`
}

type SetJobActiveRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

type JobListQuery struct {
	Category string `form:"category" json:"category" validate:"max=50"`
	Location string `form:"location" json:"location" validate:"max=100"`
	JobType  string `form:"job_type" json:"job_type" validate:"max=50"`
}
