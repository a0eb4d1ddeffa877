package dto

import "time"

// ChatAskRequest payload.
type ChatAskRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Question  string `json:"question" validate:"required,min=1,max=2000"`
}

// ChatAskResponse wraps the model answer.
type ChatAskResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// ChatTurnResponse is one stored exchange.
type ChatTurnResponse struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}
