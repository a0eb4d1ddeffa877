package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// CreateSurveyRequest payload for admin survey authoring.
type CreateSurveyRequest struct {
	Title     string                  `json:"title" validate:"required,min=1,max=200"`
	Questions []domain.SurveyQuestion `json:"questions" validate:"required,min=1,dive"`
	OpensAt   time.Time               `json:"opens_at" validate:"required"`
	ClosesAt  *time.Time              `json:"closes_at"`
}

// SurveyResponseRequest carries a volunteer's answers keyed by
// question key.
type SurveyResponseRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

// SurveyView is the public survey shape.
type SurveyView struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	Questions []domain.SurveyQuestion `json:"questions"`
	OpensAt   time.Time               `json:"opens_at"`
	ClosesAt  *time.Time              `json:"closes_at,omitempty"`
}

// SurveySubmissionView acknowledges a stored response.
type SurveySubmissionView struct {
	ID        string    `json:"id"`
	SurveyID  string    `json:"survey_id"`
	CreatedAt time.Time `json:"created_at"`
}
