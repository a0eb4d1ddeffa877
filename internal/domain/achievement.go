package domain

import "time"

// AchievementKind enumerates milestone awards.
type AchievementKind string

const (
	AchievementFirstShift  AchievementKind = "FIRST_SHIFT"
	AchievementTenShifts   AchievementKind = "TEN_SHIFTS"
	AchievementFiftyShifts AchievementKind = "FIFTY_SHIFTS"
)

// Achievement is an award granted to a volunteer.
type Achievement struct {
	ID        string
	UserID    string
	Kind      AchievementKind
	AwardedAt time.Time
}
