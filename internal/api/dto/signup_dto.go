package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// SignupResponse is the public signup shape.
type SignupResponse struct {
	ID             string               `json:"id"`
	ShiftID        string               `json:"shift_id"`
	UserID         string               `json:"user_id"`
	Status         domain.SignupStatus  `json:"status"`
	PreviousStatus *domain.SignupStatus `json:"previous_status,omitempty"`
	Origin         domain.SignupOrigin  `json:"origin"`
	Note           string               `json:"note,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	CanceledAt     *time.Time           `json:"canceled_at,omitempty"`
}

// SignupDecisionResponse wraps the outcome of a self-service signup.
type SignupDecisionResponse struct {
	Signup SignupResponse `json:"signup"`
}

// AutoApprovalResponse answers the pre-signup eligibility probe.
type AutoApprovalResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

// CancelSignupResponse reports the cancellation, and the promoted
// waitlist entry when a freed seat was reassigned.
type CancelSignupResponse struct {
	Canceled SignupResponse  `json:"canceled"`
	Promoted *SignupResponse `json:"promoted,omitempty"`
}

// MySignupResponse joins a signup with the shift it belongs to.
type MySignupResponse struct {
	Signup SignupResponse `json:"signup"`
	Shift  ShiftResponse  `json:"shift"`
}
