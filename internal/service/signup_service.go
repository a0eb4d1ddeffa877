package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// SignupService runs the signup decision pipeline: daily conflict
// check, eligibility, capacity allocation and the status transition,
// all within one transaction holding the shift row lock.
type SignupService struct {
	shifts     repository.ShiftRepository
	signups    repository.SignupRepository
	users      repository.UserRepository
	tx         repository.TxRunner
	dispatcher events.Dispatcher
	rules      config.SignupConfig
	now        func() time.Time
}

// SignupDependencies bundles repositories for the signup service.
type SignupDependencies struct {
	ShiftRepo  repository.ShiftRepository
	SignupRepo repository.SignupRepository
	UserRepo   repository.UserRepository
	TxRunner   repository.TxRunner
	Dispatcher events.Dispatcher
}

// NewSignupService constructs the service.
func NewSignupService(rules config.SignupConfig, deps SignupDependencies) *SignupService {
	return &SignupService{
		shifts:     deps.ShiftRepo,
		signups:    deps.SignupRepo,
		users:      deps.UserRepo,
		tx:         deps.TxRunner,
		dispatcher: deps.Dispatcher,
		rules:      rules,
		now:        time.Now,
	}
}

// SignUp handles a self-service signup request and returns the signup
// with its decided status (PENDING, CONFIRMED or WAITLISTED).
func (s *SignupService) SignUp(ctx context.Context, user *domain.User, shiftID string) (*domain.Signup, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("volunteer required")
	}

	var created *domain.Signup
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		shifts := s.shifts.WithTx(tx)
		signups := s.signups.WithTx(tx)

		shift, err := shifts.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
			}
			return apperrors.MapError(err)
		}
		if shift.IsPast(s.now()) {
			return apperrors.NewValidationError("shift has already started", nil)
		}

		if err := s.rejectDuplicate(ctx, signups, shift.ID, user.ID); err != nil {
			return err
		}
		if err := s.rejectDailyConflict(ctx, signups, shift, user.ID); err != nil {
			return err
		}

		status, err := s.allocate(ctx, shifts, signups, shift, user)
		if err != nil {
			return err
		}

		created = &domain.Signup{
			ShiftID: shift.ID,
			UserID:  user.ID,
			Status:  status,
			Origin:  domain.OriginSelf,
		}
		return signups.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventSignupCreated,
		ShiftID: created.ShiftID,
		Actor:   events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.SignupCreatedPayload{
			SignupID: created.ID,
			UserID:   created.UserID,
			Status:   created.Status,
			Origin:   created.Origin,
		},
	})
	return created, nil
}

// AutoApprovalCheck reports whether the user would be instantly
// approved for the shift, with the reason shown in the signup dialog.
func (s *SignupService) AutoApprovalCheck(ctx context.Context, user *domain.User, shiftID string) (bool, string, error) {
	if user == nil {
		return false, "", apperrors.NewUnauthorized("volunteer required")
	}
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, "", apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
		}
		return false, "", apperrors.MapError(err)
	}
	shiftType, err := s.shifts.GetTypeByID(ctx, shift.ShiftTypeID)
	if err != nil {
		return false, "", apperrors.MapError(err)
	}
	eligible, reason := checkEligibility(eligibilityInput{
		VolunteerGrade: user.VolunteerGrade,
		NoShowCount:    user.NoShowCount,
		ApprovalOnly:   shiftType.ApprovalOnly,
		MinGrade:       s.rules.AutoApproveMinGrade,
		MaxNoShows:     s.rules.AutoApproveMaxNoShows,
	})
	return eligible, reason, nil
}

// AdminAssign places a volunteer on a shift on an admin's authority.
// Capacity is a soft limit here: assigning past it succeeds and the
// overflow is reported back as a warning. Past shifts are allowed so
// walk-ins can be recorded.
func (s *SignupService) AdminAssign(ctx context.Context, admin *domain.User, shiftID, volunteerID string, status domain.SignupStatus, note string) (*domain.Signup, bool, error) {
	if !admin.IsAdmin() {
		return nil, false, apperrors.NewForbidden("admin required")
	}
	if status == "" {
		status = domain.SignupStatusConfirmed
	}
	switch status {
	case domain.SignupStatusConfirmed, domain.SignupStatusPending, domain.SignupStatusWaitlisted:
	default:
		return nil, false, apperrors.NewValidationError("status must be CONFIRMED, PENDING or WAITLISTED", nil)
	}

	volunteer, err := s.users.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperrors.NewNotFound("volunteer", map[string]any{"volunteer_id": volunteerID})
		}
		return nil, false, apperrors.MapError(err)
	}
	if volunteer.Status != domain.UserStatusActive {
		return nil, false, apperrors.NewConflict("volunteer account is not active", nil)
	}

	var created *domain.Signup
	var capacitySeen, confirmedSeen int
	overCapacity := false
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		shifts := s.shifts.WithTx(tx)
		signups := s.signups.WithTx(tx)

		shift, err := shifts.GetByIDForUpdate(ctx, shiftID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("shift", map[string]any{"shift_id": shiftID})
			}
			return apperrors.MapError(err)
		}

		if err := s.rejectDuplicate(ctx, signups, shift.ID, volunteer.ID); err != nil {
			return err
		}
		// Conflict rules bind admin assignment too.
		if err := s.rejectDailyConflict(ctx, signups, shift, volunteer.ID); err != nil {
			return err
		}

		if status == domain.SignupStatusConfirmed {
			confirmed, err := signups.CountByShiftAndStatus(ctx, shift.ID, domain.SignupStatusConfirmed)
			if err != nil {
				return apperrors.MapError(err)
			}
			overCapacity = !hasOpenSeat(shift.Capacity, confirmed, shift.PlaceholderCount)
			capacitySeen, confirmedSeen = shift.Capacity, confirmed
		}

		created = &domain.Signup{
			ShiftID: shift.ID,
			UserID:  volunteer.ID,
			Status:  status,
			Origin:  domain.OriginAdmin,
			Note:    note,
		}
		return signups.Create(ctx, created)
	})
	if err != nil {
		return nil, false, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventSignupCreated,
		ShiftID: created.ShiftID,
		Actor:   events.Actor{UserID: admin.ID, Role: admin.Role},
		Payload: events.SignupCreatedPayload{
			SignupID: created.ID,
			UserID:   created.UserID,
			Status:   created.Status,
			Origin:   created.Origin,
		},
	})
	if overCapacity {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventShiftCapacityExceeded,
			ShiftID: created.ShiftID,
			Actor:   events.Actor{UserID: admin.ID, Role: admin.Role},
			Payload: events.ShiftCapacityExceededPayload{
				SignupID:  created.ID,
				Capacity:  capacitySeen,
				Confirmed: confirmedSeen,
			},
		})
	}
	return created, overCapacity, nil
}

// Cancel cancels a signup. Volunteers may cancel their own; admins may
// cancel any. Freed confirmed seats promote the oldest waitlisted
// signup within the same transaction.
func (s *SignupService) Cancel(ctx context.Context, actor *domain.User, signupID string) (*domain.Signup, *domain.Signup, error) {
	var canceled, promoted *domain.Signup
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		shifts := s.shifts.WithTx(tx)
		signups := s.signups.WithTx(tx)

		signup, err := signups.GetByID(ctx, signupID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("signup", map[string]any{"signup_id": signupID})
			}
			return apperrors.MapError(err)
		}
		if signup.UserID != actor.ID && !actor.IsAdmin() {
			return apperrors.NewForbidden("not your signup")
		}

		// Lock the shift before touching seat accounting.
		if _, err := shifts.GetByIDForUpdate(ctx, signup.ShiftID); err != nil {
			return apperrors.MapError(err)
		}

		wasConfirmed := signup.Status == domain.SignupStatusConfirmed
		if err := transitionSignup(signup, domain.SignupStatusCanceled); err != nil {
			return err
		}
		now := s.now()
		signup.CanceledAt = &now
		if err := signups.Update(ctx, signup); err != nil {
			return apperrors.MapError(err)
		}
		canceled = signup

		if wasConfirmed {
			next, err := signups.OldestWaitlisted(ctx, signup.ShiftID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil
				}
				return apperrors.MapError(err)
			}
			if err := transitionSignup(next, domain.SignupStatusConfirmed); err != nil {
				return err
			}
			if err := signups.Update(ctx, next); err != nil {
				return apperrors.MapError(err)
			}
			promoted = next
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventSignupStatusChanged,
		ShiftID: canceled.ShiftID,
		Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.SignupStatusChangedPayload{
			SignupID:  canceled.ID,
			UserID:    canceled.UserID,
			OldStatus: *canceled.PreviousStatus,
			NewStatus: canceled.Status,
		},
	})
	if promoted != nil {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventWaitlistPromoted,
			ShiftID: promoted.ShiftID,
			Actor:   events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload: events.WaitlistPromotedPayload{SignupID: promoted.ID, UserID: promoted.UserID},
		})
	}
	return canceled, promoted, nil
}

// Confirm approves a pending, regular-pending or waitlisted signup.
func (s *SignupService) Confirm(ctx context.Context, admin *domain.User, signupID string) (*domain.Signup, error) {
	return s.adminTransition(ctx, admin, signupID, domain.SignupStatusConfirmed, nil)
}

// MarkNoShow records a confirmed volunteer who did not turn up. The
// reliability counter is bumped in the same transaction as the status
// change so the two never drift apart.
func (s *SignupService) MarkNoShow(ctx context.Context, admin *domain.User, signupID string) (*domain.Signup, error) {
	return s.adminTransition(ctx, admin, signupID, domain.SignupStatusNoShow,
		func(tx pgx.Tx, signup *domain.Signup) error {
			return s.users.WithTx(tx).IncrementNoShow(ctx, signup.UserID)
		})
}

func (s *SignupService) adminTransition(ctx context.Context, admin *domain.User, signupID string, next domain.SignupStatus, followUp func(tx pgx.Tx, signup *domain.Signup) error) (*domain.Signup, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	var signup *domain.Signup
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		signups := s.signups.WithTx(tx)
		found, err := signups.GetByID(ctx, signupID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("signup", map[string]any{"signup_id": signupID})
			}
			return apperrors.MapError(err)
		}
		old := found.Status
		if err := transitionSignup(found, next); err != nil {
			return err
		}
		if err := signups.Update(ctx, found); err != nil {
			return apperrors.MapError(err)
		}
		if followUp != nil {
			if err := followUp(tx, found); err != nil {
				return apperrors.MapError(err)
			}
		}
		signup = found
		s.publishEvent(ctx, events.Event{
			Type:    events.EventSignupStatusChanged,
			ShiftID: found.ShiftID,
			Actor:   events.Actor{UserID: admin.ID, Role: admin.Role},
			Payload: events.SignupStatusChangedPayload{
				SignupID:  found.ID,
				UserID:    found.UserID,
				OldStatus: old,
				NewStatus: found.Status,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signup, nil
}

// ListForUser returns the user's signups joined with their shifts.
func (s *SignupService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]repository.SignupWithShift, error) {
	items, err := s.signups.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func (s *SignupService) rejectDuplicate(ctx context.Context, signups repository.SignupRepository, shiftID, userID string) error {
	if _, err := signups.GetActiveByShiftAndUser(ctx, shiftID, userID); err == nil {
		return apperrors.NewConflict("already signed up for this shift", map[string]any{"shift_id": shiftID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *SignupService) rejectDailyConflict(ctx context.Context, signups repository.SignupRepository, shift *domain.Shift, userID string) error {
	day := shift.Day()
	sameDay, err := signups.ListActiveForUserBetween(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return apperrors.MapError(err)
	}
	existing := make([]domain.Shift, 0, len(sameDay))
	for _, item := range sameDay {
		existing = append(existing, item.Shift)
	}
	return checkDailyConflict(shift, existing, s.rules.AMCutoffHour)
}

// allocate decides CONFIRMED, PENDING or WAITLISTED for a self-service
// candidate. Eligibility is only consulted when a seat is open; joining
// the waitlist never auto-approves.
func (s *SignupService) allocate(ctx context.Context, shifts repository.ShiftRepository, signups repository.SignupRepository, shift *domain.Shift, user *domain.User) (domain.SignupStatus, error) {
	confirmed, err := signups.CountByShiftAndStatus(ctx, shift.ID, domain.SignupStatusConfirmed)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if !hasOpenSeat(shift.Capacity, confirmed, shift.PlaceholderCount) {
		return domain.SignupStatusWaitlisted, nil
	}

	shiftType, err := shifts.GetTypeByID(ctx, shift.ShiftTypeID)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	eligible, _ := checkEligibility(eligibilityInput{
		VolunteerGrade: user.VolunteerGrade,
		NoShowCount:    user.NoShowCount,
		ApprovalOnly:   shiftType.ApprovalOnly,
		MinGrade:       s.rules.AutoApproveMinGrade,
		MaxNoShows:     s.rules.AutoApproveMaxNoShows,
	})
	if eligible {
		return domain.SignupStatusConfirmed, nil
	}
	return domain.SignupStatusPending, nil
}

func (s *SignupService) publishEvent(ctx context.Context, event events.Event) {
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
