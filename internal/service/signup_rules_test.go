package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

const cutoffHour = 12

func shiftAt(id string, hour int) domain.Shift {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	return domain.Shift{
		ID:       id,
		StartsAt: day.Add(time.Duration(hour) * time.Hour),
		EndsAt:   day.Add(time.Duration(hour+3) * time.Hour),
		Capacity: 6,
	}
}

func TestCheckDailyConflict(t *testing.T) {
	tests := []struct {
		name          string
		candidateHour int
		existingHours []int
		wantErr       bool
	}{
		{name: "no existing signups", candidateHour: 9, existingHours: nil, wantErr: false},
		{name: "second AM shift rejected", candidateHour: 9, existingHours: []int{8}, wantErr: true},
		{name: "second PM shift rejected", candidateHour: 14, existingHours: []int{17}, wantErr: true},
		{name: "AM plus PM allowed", candidateHour: 14, existingHours: []int{9}, wantErr: false},
		{name: "PM plus AM allowed", candidateHour: 8, existingHours: []int{13}, wantErr: false},
		{name: "noon counts as PM", candidateHour: 12, existingHours: []int{15}, wantErr: true},
		{name: "both periods taken", candidateHour: 10, existingHours: []int{8, 15}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			candidate := shiftAt("candidate", tc.candidateHour)
			existing := make([]domain.Shift, 0, len(tc.existingHours))
			for i, hour := range tc.existingHours {
				existing = append(existing, shiftAt(string(rune('a'+i)), hour))
			}

			err := checkDailyConflict(&candidate, existing, cutoffHour)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "one AM shift and one PM shift per day")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckDailyConflictNamesThePeriod(t *testing.T) {
	candidate := shiftAt("candidate", 9)
	err := checkDailyConflict(&candidate, []domain.Shift{shiftAt("other", 10)}, cutoffHour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "an AM shift")

	candidate = shiftAt("candidate", 15)
	err = checkDailyConflict(&candidate, []domain.Shift{shiftAt("other", 13)}, cutoffHour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a PM shift")
	assert.NotContains(t, err.Error(), "an PM shift")
}

func TestCheckDailyConflictIgnoresSelf(t *testing.T) {
	candidate := shiftAt("same", 9)
	err := checkDailyConflict(&candidate, []domain.Shift{shiftAt("same", 9)}, cutoffHour)
	assert.NoError(t, err)
}

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name       string
		in         eligibilityInput
		want       bool
		wantReason string
	}{
		{
			name:       "grade and record qualify",
			in:         eligibilityInput{VolunteerGrade: 2, NoShowCount: 0, MinGrade: 2, MaxNoShows: 0},
			want:       true,
			wantReason: ReasonInstantApproval,
		},
		{
			name:       "grade too low",
			in:         eligibilityInput{VolunteerGrade: 1, NoShowCount: 0, MinGrade: 2, MaxNoShows: 0},
			want:       false,
			wantReason: ReasonStandardProcess,
		},
		{
			name:       "no-show history blocks",
			in:         eligibilityInput{VolunteerGrade: 3, NoShowCount: 1, MinGrade: 2, MaxNoShows: 0},
			want:       false,
			wantReason: ReasonStandardProcess,
		},
		{
			name:       "approval-only shift type never auto-approves",
			in:         eligibilityInput{VolunteerGrade: 5, NoShowCount: 0, ApprovalOnly: true, MinGrade: 2, MaxNoShows: 0},
			want:       false,
			wantReason: ReasonStandardProcess,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := checkEligibility(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantReason, reason)
		})
	}
}

func TestHasOpenSeat(t *testing.T) {
	assert.True(t, hasOpenSeat(6, 0, 0))
	assert.True(t, hasOpenSeat(6, 3, 2))
	assert.False(t, hasOpenSeat(6, 6, 0))
	assert.False(t, hasOpenSeat(6, 4, 2))
	// Placeholders count against capacity.
	assert.False(t, hasOpenSeat(3, 1, 2))
}

func TestFillRateAndLabel(t *testing.T) {
	tests := []struct {
		capacity, confirmed, placeholders int
		wantRate                          float64
		wantLabel                         string
	}{
		{6, 1, 0, 1.0 / 6.0, "Critical"},
		{6, 2, 0, 2.0 / 6.0, "Low"},
		{6, 3, 1, 4.0 / 6.0, "Moderate"},
		{6, 5, 0, 5.0 / 6.0, "Good"},
		{6, 6, 0, 1, "Full"},
		{4, 3, 2, 1.25, "Full"},
	}

	for _, tc := range tests {
		rate := fillRate(tc.capacity, tc.confirmed, tc.placeholders)
		assert.InDelta(t, tc.wantRate, rate, 1e-9)
		assert.Equal(t, tc.wantLabel, fillLabel(rate))
	}
}

func TestTransitionSignup(t *testing.T) {
	t.Run("pending to confirmed", func(t *testing.T) {
		signup := &domain.Signup{Status: domain.SignupStatusPending}
		require.NoError(t, transitionSignup(signup, domain.SignupStatusConfirmed))
		assert.Equal(t, domain.SignupStatusConfirmed, signup.Status)
		assert.Nil(t, signup.PreviousStatus)
	})

	t.Run("cancel records previous status", func(t *testing.T) {
		signup := &domain.Signup{Status: domain.SignupStatusConfirmed}
		require.NoError(t, transitionSignup(signup, domain.SignupStatusCanceled))
		assert.Equal(t, domain.SignupStatusCanceled, signup.Status)
		require.NotNil(t, signup.PreviousStatus)
		assert.Equal(t, domain.SignupStatusConfirmed, *signup.PreviousStatus)
	})

	t.Run("canceled is terminal", func(t *testing.T) {
		signup := &domain.Signup{Status: domain.SignupStatusCanceled}
		err := transitionSignup(signup, domain.SignupStatusConfirmed)
		require.Error(t, err)
	})

	t.Run("no-show only from confirmed", func(t *testing.T) {
		signup := &domain.Signup{Status: domain.SignupStatusPending}
		require.Error(t, transitionSignup(signup, domain.SignupStatusNoShow))

		signup = &domain.Signup{Status: domain.SignupStatusConfirmed}
		require.NoError(t, transitionSignup(signup, domain.SignupStatusNoShow))
	})

	t.Run("waitlist promotion", func(t *testing.T) {
		signup := &domain.Signup{Status: domain.SignupStatusWaitlisted}
		require.NoError(t, transitionSignup(signup, domain.SignupStatusConfirmed))
	})

	t.Run("regular pending approves like pending", func(t *testing.T) {
		signup := &domain.Signup{Status: domain.SignupStatusRegularPending}
		require.NoError(t, transitionSignup(signup, domain.SignupStatusConfirmed))
	})
}
