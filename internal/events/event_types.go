package events

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered        EventType = "user_registered"
	EventSignupCreated         EventType = "signup_created"
	EventSignupStatusChanged   EventType = "signup_status_changed"
	EventWaitlistPromoted      EventType = "waitlist_promoted"
	EventShiftCreated          EventType = "shift_created"
	EventShiftCapacityExceeded EventType = "shift_capacity_exceeded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ShiftID   string      `json:"shift_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SignupCreatedPayload payload.
type SignupCreatedPayload struct {
	SignupID string              `json:"signup_id"`
	UserID   string              `json:"user_id"`
	Status   domain.SignupStatus `json:"status"`
	Origin   domain.SignupOrigin `json:"origin"`
}

// SignupStatusChangedPayload payload.
type SignupStatusChangedPayload struct {
	SignupID  string              `json:"signup_id"`
	UserID    string              `json:"user_id"`
	OldStatus domain.SignupStatus `json:"old_status"`
	NewStatus domain.SignupStatus `json:"new_status"`
	Note      string              `json:"note,omitempty"`
}

// WaitlistPromotedPayload payload.
type WaitlistPromotedPayload struct {
	SignupID string `json:"signup_id"`
	UserID   string `json:"user_id"`
}

// ShiftCreatedPayload payload.
type ShiftCreatedPayload struct {
	Location string    `json:"location"`
	StartsAt time.Time `json:"starts_at"`
	Capacity int       `json:"capacity"`
}

// ShiftCapacityExceededPayload records an admin override past capacity.
type ShiftCapacityExceededPayload struct {
	SignupID  string `json:"signup_id"`
	Capacity  int    `json:"capacity"`
	Confirmed int    `json:"confirmed"`
}
