package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/teambition/rrule-go"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// GenerateResult reports the outcome of expanding a regular schedule.
type GenerateResult struct {
	Created int
	Skipped int
}

// RegularScheduleService expands recurring-volunteer patterns into
// REGULAR_PENDING signups.
type RegularScheduleService struct {
	schedules repository.RegularScheduleRepository
	shifts    repository.ShiftRepository
	signups   repository.SignupRepository
	users     repository.UserRepository
	tx        repository.TxRunner
	rules     config.SignupConfig
}

// RegularScheduleDependencies bundles repositories.
type RegularScheduleDependencies struct {
	ScheduleRepo repository.RegularScheduleRepository
	ShiftRepo    repository.ShiftRepository
	SignupRepo   repository.SignupRepository
	UserRepo     repository.UserRepository
	TxRunner     repository.TxRunner
}

// NewRegularScheduleService constructs the service.
func NewRegularScheduleService(rules config.SignupConfig, deps RegularScheduleDependencies) *RegularScheduleService {
	return &RegularScheduleService{
		schedules: deps.ScheduleRepo,
		shifts:    deps.ShiftRepo,
		signups:   deps.SignupRepo,
		users:     deps.UserRepo,
		tx:        deps.TxRunner,
		rules:     rules,
	}
}

// Create stores a recurring pattern after checking the RRULE parses and
// the volunteer exists.
func (s *RegularScheduleService) Create(ctx context.Context, admin *domain.User, schedule *domain.RegularSchedule) (*domain.RegularSchedule, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if _, err := rrule.StrToRRule(schedule.Rule); err != nil {
		return nil, apperrors.NewValidationError("invalid recurrence rule", map[string]any{"rule": schedule.Rule})
	}
	if _, err := s.users.GetByID(ctx, schedule.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("volunteer", map[string]any{"user_id": schedule.UserID})
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.shifts.GetTypeByID(ctx, schedule.ShiftTypeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift type", map[string]any{"shift_type_id": schedule.ShiftTypeID})
		}
		return nil, apperrors.MapError(err)
	}

	schedule.Active = true
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, apperrors.MapError(err)
	}
	return schedule, nil
}

// Deactivate stops future generation for a pattern.
func (s *RegularScheduleService) Deactivate(ctx context.Context, admin *domain.User, scheduleID string) error {
	if !admin.IsAdmin() {
		return apperrors.NewForbidden("admin required")
	}
	if err := s.schedules.Deactivate(ctx, scheduleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("regular schedule", map[string]any{"schedule_id": scheduleID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Generate expands the pattern over [from, to) and creates a
// REGULAR_PENDING signup for every matching shift. Occurrences that
// would break the duplicate or AM/PM rules are skipped, not fatal.
func (s *RegularScheduleService) Generate(ctx context.Context, admin *domain.User, scheduleID string, from, to time.Time) (*GenerateResult, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if !from.Before(to) {
		return nil, apperrors.NewValidationError("window must start before it ends", nil)
	}

	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("regular schedule", map[string]any{"schedule_id": scheduleID})
		}
		return nil, apperrors.MapError(err)
	}
	if !schedule.Active {
		return nil, apperrors.NewConflict("regular schedule is inactive", nil)
	}

	rule, err := rrule.StrToRRule(schedule.Rule)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid recurrence rule", map[string]any{"rule": schedule.Rule})
	}
	occurrences := rule.Between(from, to, true)

	result := &GenerateResult{}
	for _, occ := range occurrences {
		dayStart := time.Date(occ.Year(), occ.Month(), occ.Day(), 0, 0, 0, 0, occ.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		candidates, err := s.shifts.ListWithFilter(ctx, repository.ShiftFilter{
			Location:    &schedule.Location,
			ShiftTypeID: &schedule.ShiftTypeID,
			From:        &dayStart,
			To:          &dayEnd,
			Limit:       10,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for i := range candidates {
			if s.createOccurrence(ctx, schedule, candidates[i].ID) {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}
	return result, nil
}

// createOccurrence attempts one signup inside its own transaction so a
// conflicting occurrence does not roll back the rest of the batch.
func (s *RegularScheduleService) createOccurrence(ctx context.Context, schedule *domain.RegularSchedule, shiftID string) bool {
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		shifts := s.shifts.WithTx(tx)
		signups := s.signups.WithTx(tx)

		shift, err := shifts.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			return err
		}
		if _, err := signups.GetActiveByShiftAndUser(ctx, shift.ID, schedule.UserID); err == nil {
			return apperrors.NewConflict("already signed up for this shift", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		day := shift.Day()
		sameDay, err := signups.ListActiveForUserBetween(ctx, schedule.UserID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		existing := make([]domain.Shift, 0, len(sameDay))
		for _, item := range sameDay {
			existing = append(existing, item.Shift)
		}
		if err := checkDailyConflict(shift, existing, s.rules.AMCutoffHour); err != nil {
			return err
		}

		return signups.Create(ctx, &domain.Signup{
			ShiftID: shift.ID,
			UserID:  schedule.UserID,
			Status:  domain.SignupStatusRegularPending,
			Origin:  domain.OriginRegular,
		})
	})
	return err == nil
}

// ListForUser returns a volunteer's recurring patterns.
func (s *RegularScheduleService) ListForUser(ctx context.Context, userID string) ([]domain.RegularSchedule, error) {
	schedules, err := s.schedules.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return schedules, nil
}
