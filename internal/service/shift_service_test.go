package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
)

func newTestShiftService(t *testing.T) (*ShiftService, *fakeShiftRepo, *fakeSignupRepo, *fakeUserRepo) {
	t.Helper()
	shifts := newFakeShiftRepo()
	signups := newFakeSignupRepo(shifts)
	users := newFakeUserRepo()

	svc := NewShiftService(ShiftDependencies{
		ShiftRepo:  shifts,
		SignupRepo: signups,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	svc.now = func() time.Time { return testNow }
	return svc, shifts, signups, users
}

func validShiftInput(shifts *fakeShiftRepo) ShiftInput {
	shiftType := &domain.ShiftType{ID: uuid.NewString(), Name: "kitchen"}
	shifts.types[shiftType.ID] = shiftType
	day := testNow.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	return ShiftInput{
		Location:    "Main Hall",
		ShiftTypeID: shiftType.ID,
		StartsAt:    day.Add(9 * time.Hour),
		EndsAt:      day.Add(12 * time.Hour),
		Capacity:    6,
	}
}

func TestCreateShiftRequiresAdmin(t *testing.T) {
	svc, shifts, _, users := newTestShiftService(t)
	volunteer := seedVolunteer(t, users, 2, 0)

	_, err := svc.CreateShift(context.Background(), volunteer, validShiftInput(shifts))
	require.Error(t, err)
}

func TestCreateShiftValidatesInput(t *testing.T) {
	svc, shifts, _, users := newTestShiftService(t)
	admin := seedAdmin(t, users)

	cases := []struct {
		name   string
		mutate func(*ShiftInput)
	}{
		{"empty location", func(in *ShiftInput) { in.Location = " " }},
		{"zero capacity", func(in *ShiftInput) { in.Capacity = 0 }},
		{"negative placeholders", func(in *ShiftInput) { in.PlaceholderCount = -1 }},
		{"ends before start", func(in *ShiftInput) { in.EndsAt = in.StartsAt.Add(-time.Hour) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validShiftInput(shifts)
			tc.mutate(&input)
			_, err := svc.CreateShift(context.Background(), admin, input)
			require.Error(t, err)
		})
	}
}

func TestCreateShiftRejectsUnknownType(t *testing.T) {
	svc, shifts, _, users := newTestShiftService(t)
	admin := seedAdmin(t, users)

	input := validShiftInput(shifts)
	input.ShiftTypeID = uuid.NewString()
	_, err := svc.CreateShift(context.Background(), admin, input)
	require.Error(t, err)
}

func TestCreateShiftPublishesEvent(t *testing.T) {
	svc, shifts, _, users := newTestShiftService(t)
	admin := seedAdmin(t, users)

	var published []events.Event
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventShiftCreated, func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})
	svc.dispatcher = dispatcher

	shift, err := svc.CreateShift(context.Background(), admin, validShiftInput(shifts))
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, shift.ID, published[0].ShiftID)
	assert.Equal(t, admin.ID, published[0].Actor.UserID)
}

func TestGetShiftStats(t *testing.T) {
	svc, shifts, signups, users := newTestShiftService(t)
	shift := seedShift(t, shifts, 9, 6, false)
	shift.PlaceholderCount = 1
	require.NoError(t, shifts.Update(context.Background(), shift))

	for i := 0; i < 2; i++ {
		volunteer := seedVolunteer(t, users, 2, 0)
		require.NoError(t, signups.Create(context.Background(), &domain.Signup{
			ShiftID: shift.ID,
			UserID:  volunteer.ID,
			Status:  domain.SignupStatusConfirmed,
		}))
	}

	_, stats, err := svc.GetShift(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Confirmed)
	assert.Equal(t, "3/6", stats.Occupancy)
	assert.InDelta(t, 0.5, stats.FillRate, 1e-9)
	assert.Equal(t, "Moderate", stats.Label)
}

func TestDeleteShiftBlockedByActiveSignups(t *testing.T) {
	svc, shifts, signups, users := newTestShiftService(t)
	admin := seedAdmin(t, users)
	shift := seedShift(t, shifts, 9, 6, false)
	volunteer := seedVolunteer(t, users, 2, 0)

	require.NoError(t, signups.Create(context.Background(), &domain.Signup{
		ShiftID: shift.ID,
		UserID:  volunteer.ID,
		Status:  domain.SignupStatusConfirmed,
	}))

	err := svc.DeleteShift(context.Background(), admin, shift.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active signups")

	// Canceled rows do not block deletion.
	for _, signup := range signups.signups {
		signup.Status = domain.SignupStatusCanceled
	}
	require.NoError(t, svc.DeleteShift(context.Background(), admin, shift.ID))
}

func TestUpdateShiftUnknown(t *testing.T) {
	svc, shifts, _, users := newTestShiftService(t)
	admin := seedAdmin(t, users)

	_, err := svc.UpdateShift(context.Background(), admin, uuid.NewString(), validShiftInput(shifts))
	require.Error(t, err)
}
