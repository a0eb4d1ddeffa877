package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
)

func newTestAchievementService(t *testing.T) (*AchievementService, *fakeAchievementRepo, *fakeShiftRepo, *fakeSignupRepo, events.Dispatcher) {
	t.Helper()
	achievements := newFakeAchievementRepo()
	shifts := newFakeShiftRepo()
	signups := newFakeSignupRepo(shifts)
	dispatcher := events.NewInMemoryDispatcher()

	svc := NewAchievementService(achievements, signups, dispatcher, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, achievements, shifts, signups, dispatcher
}

func seedFinishedSignup(t *testing.T, shifts *fakeShiftRepo, signups *fakeSignupRepo, userID string, daysAgo int) {
	t.Helper()
	day := testNow.AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour)
	shift := &domain.Shift{
		Location:    "Main Hall",
		ShiftTypeID: uuid.NewString(),
		StartsAt:    day.Add(9 * time.Hour),
		EndsAt:      day.Add(12 * time.Hour),
		Capacity:    6,
	}
	require.NoError(t, shifts.Create(context.Background(), shift))
	require.NoError(t, signups.Create(context.Background(), &domain.Signup{
		ShiftID: shift.ID,
		UserID:  userID,
		Status:  domain.SignupStatusConfirmed,
	}))
}

func TestEvaluateMilestonesAwardsFirstShift(t *testing.T) {
	svc, achievements, shifts, signups, _ := newTestAchievementService(t)
	userID := uuid.NewString()
	seedFinishedSignup(t, shifts, signups, userID, 1)

	require.NoError(t, svc.EvaluateMilestones(context.Background(), userID))

	awards, err := achievements.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, domain.AchievementFirstShift, awards[0].Kind)

	// Re-evaluating must not duplicate the award.
	require.NoError(t, svc.EvaluateMilestones(context.Background(), userID))
	awards, err = achievements.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, awards, 1)
}

func TestEvaluateMilestonesAwardsTenShifts(t *testing.T) {
	svc, achievements, shifts, signups, _ := newTestAchievementService(t)
	userID := uuid.NewString()
	for i := 1; i <= 10; i++ {
		seedFinishedSignup(t, shifts, signups, userID, i)
	}

	require.NoError(t, svc.EvaluateMilestones(context.Background(), userID))

	awards, err := achievements.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, awards, 2)
	kinds := map[domain.AchievementKind]bool{}
	for _, award := range awards {
		kinds[award.Kind] = true
	}
	assert.True(t, kinds[domain.AchievementFirstShift])
	assert.True(t, kinds[domain.AchievementTenShifts])
}

func TestEvaluateMilestonesIgnoresUnfinishedShifts(t *testing.T) {
	svc, achievements, shifts, signups, _ := newTestAchievementService(t)
	userID := uuid.NewString()

	shift := seedShift(t, shifts, 9, 6, false)
	require.NoError(t, signups.Create(context.Background(), &domain.Signup{
		ShiftID: shift.ID,
		UserID:  userID,
		Status:  domain.SignupStatusConfirmed,
	}))

	require.NoError(t, svc.EvaluateMilestones(context.Background(), userID))

	awards, err := achievements.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, awards)
}

func TestMilestoneAwardedOnConfirmationEvent(t *testing.T) {
	svc, achievements, shifts, signups, dispatcher := newTestAchievementService(t)
	svc.RegisterHandlers()

	userID := uuid.NewString()
	seedFinishedSignup(t, shifts, signups, userID, 1)

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSignupStatusChanged,
		Timestamp: testNow,
		Payload: events.SignupStatusChangedPayload{
			SignupID:  uuid.NewString(),
			UserID:    userID,
			OldStatus: domain.SignupStatusPending,
			NewStatus: domain.SignupStatusConfirmed,
		},
	})
	require.NoError(t, err)

	awards, err := achievements.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, awards, 1)
}

func TestMilestoneNotEvaluatedForOtherTransitions(t *testing.T) {
	svc, achievements, shifts, signups, dispatcher := newTestAchievementService(t)
	svc.RegisterHandlers()

	userID := uuid.NewString()
	seedFinishedSignup(t, shifts, signups, userID, 1)

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSignupStatusChanged,
		Timestamp: testNow,
		Payload: events.SignupStatusChangedPayload{
			UserID:    userID,
			OldStatus: domain.SignupStatusConfirmed,
			NewStatus: domain.SignupStatusCanceled,
		},
	})
	require.NoError(t, err)

	awards, err := achievements.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, awards)
}
