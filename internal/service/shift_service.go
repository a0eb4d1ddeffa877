package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// ShiftStats summarizes seat occupancy for dashboards and listings.
type ShiftStats struct {
	Confirmed        int
	PlaceholderCount int
	Capacity         int
	FillRate         float64
	Label            string
	Occupancy        string
}

// ShiftService coordinates shift management.
type ShiftService struct {
	shifts     repository.ShiftRepository
	signups    repository.SignupRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// ShiftDependencies bundles repositories for the shift service.
type ShiftDependencies struct {
	ShiftRepo  repository.ShiftRepository
	SignupRepo repository.SignupRepository
	Dispatcher events.Dispatcher
}

// ShiftInput describes create/update payloads.
type ShiftInput struct {
	Location         string
	ShiftTypeID      string
	StartsAt         time.Time
	EndsAt           time.Time
	Capacity         int
	PlaceholderCount int
	Note             string
}

// NewShiftService constructs the service.
func NewShiftService(deps ShiftDependencies) *ShiftService {
	return &ShiftService{
		shifts:     deps.ShiftRepo,
		signups:    deps.SignupRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// CreateShift creates a shift on admin authority.
func (s *ShiftService) CreateShift(ctx context.Context, admin *domain.User, input ShiftInput) (*domain.Shift, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if err := validateShiftInput(input); err != nil {
		return nil, err
	}
	if _, err := s.shifts.GetTypeByID(ctx, input.ShiftTypeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift type", map[string]any{"shift_type_id": input.ShiftTypeID})
		}
		return nil, apperrors.MapError(err)
	}

	shift := &domain.Shift{
		Location:         strings.TrimSpace(input.Location),
		ShiftTypeID:      input.ShiftTypeID,
		StartsAt:         input.StartsAt,
		EndsAt:           input.EndsAt,
		Capacity:         input.Capacity,
		PlaceholderCount: input.PlaceholderCount,
		Note:             strings.TrimSpace(input.Note),
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventShiftCreated,
		ShiftID: shift.ID,
		Actor:   events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload: events.ShiftCreatedPayload{
			Location: shift.Location,
			StartsAt: shift.StartsAt,
			Capacity: shift.Capacity,
		},
	})
	return shift, nil
}

// UpdateShift applies admin edits.
func (s *ShiftService) UpdateShift(ctx context.Context, admin *domain.User, shiftID string, input ShiftInput) (*domain.Shift, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if err := validateShiftInput(input); err != nil {
		return nil, err
	}
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
		}
		return nil, apperrors.MapError(err)
	}

	shift.Location = strings.TrimSpace(input.Location)
	shift.ShiftTypeID = input.ShiftTypeID
	shift.StartsAt = input.StartsAt
	shift.EndsAt = input.EndsAt
	shift.Capacity = input.Capacity
	shift.PlaceholderCount = input.PlaceholderCount
	shift.Note = strings.TrimSpace(input.Note)

	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, apperrors.MapError(err)
	}
	return shift, nil
}

// DeleteShift removes a shift unless future active signups still hang
// off it; those need cancellation first.
func (s *ShiftService) DeleteShift(ctx context.Context, admin *domain.User, shiftID string) error {
	if !admin.IsAdmin() {
		return apperrors.NewForbidden("admin required")
	}
	count, err := s.signups.CountFutureActiveByShift(ctx, shiftID, s.now())
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("shift has active signups; cancel them first",
			map[string]any{"active_signups": count})
	}
	if err := s.shifts.Delete(ctx, shiftID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetShift returns a shift with its occupancy stats.
func (s *ShiftService) GetShift(ctx context.Context, shiftID string) (*domain.Shift, *ShiftStats, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	stats, err := s.statsFor(ctx, shift)
	if err != nil {
		return nil, nil, err
	}
	return shift, stats, nil
}

// ListShifts returns filtered shifts, each with stats.
func (s *ShiftService) ListShifts(ctx context.Context, filter repository.ShiftFilter) ([]domain.Shift, []ShiftStats, error) {
	shifts, err := s.shifts.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	stats := make([]ShiftStats, 0, len(shifts))
	for i := range shifts {
		st, err := s.statsFor(ctx, &shifts[i])
		if err != nil {
			return nil, nil, err
		}
		stats = append(stats, *st)
	}
	return shifts, stats, nil
}

// ListRoster returns all signups for a shift, for the admin dashboard.
func (s *ShiftService) ListRoster(ctx context.Context, admin *domain.User, shiftID string) ([]domain.Signup, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	signups, err := s.signups.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return signups, nil
}

// ListTypes exposes the shift-type catalog.
func (s *ShiftService) ListTypes(ctx context.Context) ([]domain.ShiftType, error) {
	types, err := s.shifts.ListTypes(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return types, nil
}

func (s *ShiftService) statsFor(ctx context.Context, shift *domain.Shift) (*ShiftStats, error) {
	confirmed, err := s.signups.CountByShiftAndStatus(ctx, shift.ID, domain.SignupStatusConfirmed)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	rate := fillRate(shift.Capacity, confirmed, shift.PlaceholderCount)
	return &ShiftStats{
		Confirmed:        confirmed,
		PlaceholderCount: shift.PlaceholderCount,
		Capacity:         shift.Capacity,
		FillRate:         rate,
		Label:            fillLabel(rate),
		Occupancy:        fmt.Sprintf("%d/%d", confirmed+shift.PlaceholderCount, shift.Capacity),
	}, nil
}

func validateShiftInput(input ShiftInput) error {
	if strings.TrimSpace(input.Location) == "" {
		return apperrors.NewValidationError("location required", nil)
	}
	if input.ShiftTypeID == "" {
		return apperrors.NewValidationError("shift_type_id required", nil)
	}
	if !input.StartsAt.Before(input.EndsAt) {
		return apperrors.NewValidationError("shift must start before it ends", nil)
	}
	if input.Capacity <= 0 {
		return apperrors.NewValidationError("capacity must be positive", nil)
	}
	if input.PlaceholderCount < 0 {
		return apperrors.NewValidationError("placeholder_count cannot be negative", nil)
	}
	return nil
}

func (s *ShiftService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
