package dto

import (
	"time"

	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
)

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

type ApplicationResponse struct {
	ID                uint                     `json:"id"`
	JobID             uint                     `json:"job_id"`
	JobTitle          string                   `json:"job_title"`
	ApplicantID       uint                     `json:"applicant_id"`
	ApplicantUsername string                   `json:"applicant_username"`
	ApplicantEmail    string                   `json:"applicant_email"`
	Status            models.ApplicationStatus `json:"status"`
	AppliedAt         time.Time                `json:"applied_at"`
}

func NewApplicationResponses(rows []repositories.ApplicationRow) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ApplicationResponse{
			ID:                r.ID,
			JobID:             r.JobID,
			JobTitle:          r.JobTitle,
			ApplicantID:       r.ApplicantID,
			ApplicantUsername: r.ApplicantUsername,
			ApplicantEmail:    r.ApplicantEmail,
			Status:            r.Status,
			AppliedAt:         r.CreatedAt,
		})
	}
	return out
}
