package dto

import "github.com/spec-kit/volunteer-service/internal/domain"

// AssignVolunteerRequest payload for admin placement on a shift. The
// assignment dialog sends volunteerId; user_id is accepted as an alias.
type AssignVolunteerRequest struct {
	VolunteerID string              `json:"volunteerId" validate:"omitempty,uuid"`
	UserID      string              `json:"user_id" validate:"omitempty,uuid"`
	Status      domain.SignupStatus `json:"status" validate:"omitempty,oneof=CONFIRMED PENDING WAITLISTED"`
	Note        string              `json:"note" validate:"max=500"`
}

// TargetUserID returns whichever volunteer identifier the client sent.
func (r AssignVolunteerRequest) TargetUserID() string {
	if r.VolunteerID != "" {
		return r.VolunteerID
	}
	return r.UserID
}

// AssignVolunteerResponse includes the soft capacity warning.
type AssignVolunteerResponse struct {
	Signup          SignupResponse `json:"signup"`
	CapacityWarning bool           `json:"capacity_warning"`
}

// MergeUsersRequest payload.
type MergeUsersRequest struct {
	PrimaryID   string `json:"primary_id" validate:"required,uuid"`
	DuplicateID string `json:"duplicate_id" validate:"required,uuid"`
}

// MergePreviewResponse tallies what a merge will move.
type MergePreviewResponse struct {
	PrimaryID       string `json:"primary_id"`
	DuplicateID     string `json:"duplicate_id"`
	Signups         int    `json:"signups"`
	Achievements    int    `json:"achievements"`
	SurveyResponses int    `json:"survey_responses"`
	FriendLinks     int    `json:"friend_links"`
}

// MergeUsersResponse reports moved row counts.
type MergeUsersResponse struct {
	SignupsMoved         int `json:"signups_moved"`
	AchievementsMoved    int `json:"achievements_moved"`
	SurveyResponsesMoved int `json:"survey_responses_moved"`
	FriendLinksMoved     int `json:"friend_links_moved"`
}

// CreateRegularScheduleRequest payload.
type CreateRegularScheduleRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	ShiftTypeID string `json:"shift_type_id" validate:"required,uuid"`
	Location    string `json:"location" validate:"required,min=1,max=200"`
	Rule        string `json:"rule" validate:"required"`
}

// RegularScheduleResponse is the public schedule shape.
type RegularScheduleResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	ShiftTypeID string `json:"shift_type_id"`
	Location    string `json:"location"`
	Rule        string `json:"rule"`
	Active      bool   `json:"active"`
}

// GenerateScheduleRequest bounds the expansion window.
type GenerateScheduleRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// GenerateScheduleResponse reports expansion counts.
type GenerateScheduleResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// DashboardResponse summarizes upcoming load for admins.
type DashboardResponse struct {
	UpcomingShifts []ShiftResponse `json:"upcoming_shifts"`
	CriticalShifts int             `json:"critical_shifts"`
	TotalCapacity  int             `json:"total_capacity"`
	TotalConfirmed int             `json:"total_confirmed"`
}
