package domain

import "time"

// ShiftPeriod classifies a shift by its start hour.
type ShiftPeriod string

const (
	PeriodAM ShiftPeriod = "AM"
	PeriodPM ShiftPeriod = "PM"
)

// ShiftType categorizes shifts; approval-only types never auto-approve.
type ShiftType struct {
	ID           string
	Name         string
	ApprovalOnly bool
}

// Shift is a scheduled volunteering slot.
type Shift struct {
	ID               string
	Location         string
	ShiftTypeID      string
	StartsAt         time.Time
	EndsAt           time.Time
	Capacity         int
	PlaceholderCount int
	Note             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Period returns AM when the shift starts before cutoffHour, PM
// otherwise. Shifts spanning the cutoff are classified by start only.
func (s *Shift) Period(cutoffHour int) ShiftPeriod {
	if s.StartsAt.Hour() < cutoffHour {
		return PeriodAM
	}
	return PeriodPM
}

// Day returns the calendar day the shift starts on, truncated in the
// shift's own location time.
func (s *Shift) Day() time.Time {
	y, m, d := s.StartsAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.StartsAt.Location())
}

// IsPast reports whether the shift has already started at now.
func (s *Shift) IsPast(now time.Time) bool {
	return s.StartsAt.Before(now)
}
