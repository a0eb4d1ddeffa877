package service

import (
	"fmt"

	"github.com/spec-kit/volunteer-service/internal/domain"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// Eligibility reasons surfaced to the signup dialog.
const (
	ReasonInstantApproval = "Instant Approval Available"
	ReasonStandardProcess = "Waitlist/Approval Process"
)

// checkDailyConflict enforces the one-AM/one-PM-per-day rule: the
// candidate shift conflicts when any existing active signup on the same
// calendar day shares its period. One AM plus one PM is allowed.
func checkDailyConflict(candidate *domain.Shift, sameDay []domain.Shift, cutoffHour int) error {
	period := candidate.Period(cutoffHour)
	for i := range sameDay {
		other := &sameDay[i]
		if other.ID == candidate.ID {
			continue
		}
		if other.Period(cutoffHour) == period {
			article := "a"
			if period == domain.PeriodAM {
				article = "an"
			}
			return apperrors.NewConflict(
				fmt.Sprintf("you already have %s %s shift on this day; volunteers may hold one AM shift and one PM shift per day", article, period),
				map[string]any{"conflicting_shift_id": other.ID, "period": string(period)},
			)
		}
	}
	return nil
}

// eligibilityInput bundles the auto-approval signals.
type eligibilityInput struct {
	VolunteerGrade int
	NoShowCount    int
	ApprovalOnly   bool
	MinGrade       int
	MaxNoShows     int
}

// checkEligibility decides whether a signup bypasses manual review.
func checkEligibility(in eligibilityInput) (bool, string) {
	if in.ApprovalOnly {
		return false, ReasonStandardProcess
	}
	if in.VolunteerGrade < in.MinGrade {
		return false, ReasonStandardProcess
	}
	if in.NoShowCount > in.MaxNoShows {
		return false, ReasonStandardProcess
	}
	return true, ReasonInstantApproval
}

// hasOpenSeat reports whether confirmed signups plus placeholders leave
// room under capacity.
func hasOpenSeat(capacity, confirmed, placeholders int) bool {
	return confirmed+placeholders < capacity
}

// fillRate returns the occupied fraction of a shift's capacity.
func fillRate(capacity, confirmed, placeholders int) float64 {
	if capacity <= 0 {
		return 1
	}
	return float64(confirmed+placeholders) / float64(capacity)
}

// fillLabel maps a fill rate to the dashboard status label.
func fillLabel(rate float64) string {
	switch {
	case rate < 0.25:
		return "Critical"
	case rate < 0.5:
		return "Low"
	case rate < 0.75:
		return "Moderate"
	case rate < 1:
		return "Good"
	default:
		return "Full"
	}
}

var allowedSignupTransitions = map[domain.SignupStatus][]domain.SignupStatus{
	domain.SignupStatusPending:        {domain.SignupStatusConfirmed, domain.SignupStatusCanceled},
	domain.SignupStatusRegularPending: {domain.SignupStatusConfirmed, domain.SignupStatusCanceled},
	domain.SignupStatusConfirmed:      {domain.SignupStatusCanceled, domain.SignupStatusNoShow},
	domain.SignupStatusWaitlisted:     {domain.SignupStatusConfirmed, domain.SignupStatusCanceled},
	domain.SignupStatusCanceled:       {},
	domain.SignupStatusNoShow:         {},
}

func isValidSignupTransition(current, next domain.SignupStatus) bool {
	for _, candidate := range allowedSignupTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// transitionSignup applies a legal status change in place, keeping the
// cancellation history the reporting layer relies on.
func transitionSignup(signup *domain.Signup, next domain.SignupStatus) error {
	if !isValidSignupTransition(signup.Status, next) {
		return apperrors.NewConflict(
			fmt.Sprintf("cannot change signup from %s to %s", signup.Status, next),
			map[string]any{"from": string(signup.Status), "to": string(next)},
		)
	}
	if next == domain.SignupStatusCanceled {
		previous := signup.Status
		signup.PreviousStatus = &previous
	}
	signup.Status = next
	return nil
}
