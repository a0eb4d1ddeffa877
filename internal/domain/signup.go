package domain

import "time"

// SignupStatus enumerates lifecycle states for signups.
type SignupStatus string

const (
	SignupStatusPending        SignupStatus = "PENDING"
	SignupStatusConfirmed      SignupStatus = "CONFIRMED"
	SignupStatusWaitlisted     SignupStatus = "WAITLISTED"
	SignupStatusCanceled       SignupStatus = "CANCELED"
	SignupStatusNoShow         SignupStatus = "NO_SHOW"
	SignupStatusRegularPending SignupStatus = "REGULAR_PENDING"
)

// IsActive reports whether the status counts against capacity/conflict
// rules. Only CANCELED signups are inactive.
func (s SignupStatus) IsActive() bool {
	return s != SignupStatusCanceled
}

// SignupOrigin records how the signup came to exist.
type SignupOrigin string

const (
	OriginSelf    SignupOrigin = "SELF"
	OriginAdmin   SignupOrigin = "ADMIN"
	OriginRegular SignupOrigin = "REGULAR"
)

// Signup binds one volunteer to one shift. At most one non-CANCELED
// signup may exist per (user, shift) pair.
type Signup struct {
	ID             string
	ShiftID        string
	UserID         string
	Status         SignupStatus
	PreviousStatus *SignupStatus
	Origin         SignupOrigin
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CanceledAt     *time.Time
}
