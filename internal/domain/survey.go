package domain

import "time"

// Survey is an admin-authored questionnaire.
type Survey struct {
	ID        string
	Title     string
	Questions []SurveyQuestion
	OpensAt   time.Time
	ClosesAt  *time.Time
	CreatedAt time.Time
}

// SurveyQuestion is a single prompt within a survey.
type SurveyQuestion struct {
	Key    string `json:"key"`
	Prompt string `json:"prompt"`
}

// SurveyResponse stores one volunteer's answers. One response per
// (user, survey) pair.
type SurveyResponse struct {
	ID        string
	SurveyID  string
	UserID    string
	Answers   map[string]string
	CreatedAt time.Time
}
