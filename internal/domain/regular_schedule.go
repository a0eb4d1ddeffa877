package domain

import "time"

// RegularSchedule is a recurring-volunteer assignment. Rule holds an
// RRULE string; each matching shift occurrence yields a
// REGULAR_PENDING signup for the user.
type RegularSchedule struct {
	ID          string
	UserID      string
	ShiftTypeID string
	Location    string
	Rule        string
	Active      bool
	CreatedAt   time.Time
}
