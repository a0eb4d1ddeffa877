package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
)

type fakeScheduleRepo struct {
	schedules map[string]*domain.RegularSchedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: map[string]*domain.RegularSchedule{}}
}

func (r *fakeScheduleRepo) Create(ctx context.Context, schedule *domain.RegularSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	schedule.CreatedAt = time.Now()
	copied := *schedule
	r.schedules[schedule.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id string) (*domain.RegularSchedule, error) {
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *schedule
	return &copied, nil
}

func (r *fakeScheduleRepo) ListActive(ctx context.Context) ([]domain.RegularSchedule, error) {
	var out []domain.RegularSchedule
	for _, schedule := range r.schedules {
		if schedule.Active {
			out = append(out, *schedule)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListByUser(ctx context.Context, userID string) ([]domain.RegularSchedule, error) {
	var out []domain.RegularSchedule
	for _, schedule := range r.schedules {
		if schedule.UserID == userID {
			out = append(out, *schedule)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) Deactivate(ctx context.Context, id string) error {
	schedule, ok := r.schedules[id]
	if !ok {
		return pgx.ErrNoRows
	}
	schedule.Active = false
	return nil
}

func newTestScheduleService(t *testing.T) (*RegularScheduleService, *fakeScheduleRepo, *fakeShiftRepo, *fakeSignupRepo, *fakeUserRepo) {
	t.Helper()
	shifts := newFakeShiftRepo()
	signups := newFakeSignupRepo(shifts)
	users := newFakeUserRepo()
	schedules := newFakeScheduleRepo()

	svc := NewRegularScheduleService(config.SignupConfig{AMCutoffHour: 12}, RegularScheduleDependencies{
		ScheduleRepo: schedules,
		ShiftRepo:    shifts,
		SignupRepo:   signups,
		UserRepo:     users,
		TxRunner:     fakeTxRunner{},
	})
	return svc, schedules, shifts, signups, users
}

func seedTypedShift(t *testing.T, shifts *fakeShiftRepo, typeID, location string, startsAt time.Time) *domain.Shift {
	t.Helper()
	shift := &domain.Shift{
		Location:    location,
		ShiftTypeID: typeID,
		StartsAt:    startsAt,
		EndsAt:      startsAt.Add(3 * time.Hour),
		Capacity:    6,
	}
	require.NoError(t, shifts.Create(context.Background(), shift))
	return shift
}

func TestCreateScheduleValidatesRule(t *testing.T) {
	svc, _, shifts, _, users := newTestScheduleService(t)
	admin := seedAdmin(t, users)
	volunteer := seedVolunteer(t, users, 2, 0)
	shiftType := &domain.ShiftType{ID: uuid.NewString(), Name: "kitchen"}
	shifts.types[shiftType.ID] = shiftType

	_, err := svc.Create(context.Background(), admin, &domain.RegularSchedule{
		UserID:      volunteer.ID,
		ShiftTypeID: shiftType.ID,
		Location:    "Main Hall",
		Rule:        "not an rrule",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recurrence rule")

	schedule, err := svc.Create(context.Background(), admin, &domain.RegularSchedule{
		UserID:      volunteer.ID,
		ShiftTypeID: shiftType.ID,
		Location:    "Main Hall",
		Rule:        "FREQ=WEEKLY;BYDAY=MO",
	})
	require.NoError(t, err)
	assert.True(t, schedule.Active)
}

func TestGenerateCreatesRegularPendingSignups(t *testing.T) {
	svc, schedules, shifts, signups, users := newTestScheduleService(t)
	admin := seedAdmin(t, users)
	volunteer := seedVolunteer(t, users, 2, 0)
	shiftType := &domain.ShiftType{ID: uuid.NewString(), Name: "kitchen"}
	shifts.types[shiftType.ID] = shiftType

	// Mondays at 09:00 UTC.
	schedule := &domain.RegularSchedule{
		UserID:      volunteer.ID,
		ShiftTypeID: shiftType.ID,
		Location:    "Main Hall",
		Rule:        "FREQ=WEEKLY;DTSTART=20260907T090000Z;BYDAY=MO",
		Active:      true,
	}
	require.NoError(t, schedules.Create(context.Background(), schedule))

	monday1 := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	monday2 := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	seedTypedShift(t, shifts, shiftType.ID, "Main Hall", monday1)
	seedTypedShift(t, shifts, shiftType.ID, "Main Hall", monday2)
	// Wrong location never matches.
	seedTypedShift(t, shifts, shiftType.ID, "Annex", monday1)

	from := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	result, err := svc.Generate(context.Background(), admin, schedule.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)

	created, err := signups.CountByUser(context.Background(), volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	for _, signup := range signups.signups {
		assert.Equal(t, domain.SignupStatusRegularPending, signup.Status)
		assert.Equal(t, domain.OriginRegular, signup.Origin)
	}
}

func TestGenerateSkipsExistingSignups(t *testing.T) {
	svc, schedules, shifts, _, users := newTestScheduleService(t)
	admin := seedAdmin(t, users)
	volunteer := seedVolunteer(t, users, 2, 0)
	shiftType := &domain.ShiftType{ID: uuid.NewString(), Name: "kitchen"}
	shifts.types[shiftType.ID] = shiftType

	schedule := &domain.RegularSchedule{
		UserID:      volunteer.ID,
		ShiftTypeID: shiftType.ID,
		Location:    "Main Hall",
		Rule:        "FREQ=WEEKLY;DTSTART=20260907T090000Z;BYDAY=MO",
		Active:      true,
	}
	require.NoError(t, schedules.Create(context.Background(), schedule))
	seedTypedShift(t, shifts, shiftType.ID, "Main Hall", time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC))

	from := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	result, err := svc.Generate(context.Background(), admin, schedule.ID, from, to)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	// Re-running the same window creates nothing new.
	result, err = svc.Generate(context.Background(), admin, schedule.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Skipped)
}

func TestGenerateRejectsInactiveSchedule(t *testing.T) {
	svc, schedules, shifts, _, users := newTestScheduleService(t)
	admin := seedAdmin(t, users)
	volunteer := seedVolunteer(t, users, 2, 0)
	shiftType := &domain.ShiftType{ID: uuid.NewString(), Name: "kitchen"}
	shifts.types[shiftType.ID] = shiftType

	schedule := &domain.RegularSchedule{
		UserID:      volunteer.ID,
		ShiftTypeID: shiftType.ID,
		Location:    "Main Hall",
		Rule:        "FREQ=WEEKLY;BYDAY=MO",
		Active:      true,
	}
	require.NoError(t, schedules.Create(context.Background(), schedule))
	require.NoError(t, svc.Deactivate(context.Background(), admin, schedule.ID))

	from := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	_, err := svc.Generate(context.Background(), admin, schedule.ID, from, to)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive")
}
