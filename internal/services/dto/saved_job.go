package dto

import (
	"time"

	"jobmarket_backend/internal/repositories"
)

type SavedJobResponse struct {
	JobID    uint      `json:"job_id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Category *string   `json:"category"`
	SavedAt  time.Time `json:"saved_at"`
}

func NewSavedJobResponses(rows []repositories.SavedJobRow) []SavedJobResponse {
	out := make([]SavedJobResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, SavedJobResponse{
			JobID:    r.JobID,
			Title:    r.Title,
			Location: r.Location,
			Category: r.Category,
			SavedAt:  r.CreatedAt,
		})
	}
	return out
}
