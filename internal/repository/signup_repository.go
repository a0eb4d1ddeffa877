package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// SignupWithShift pairs a signup with the shift it belongs to, for
// listings and conflict checks.
type SignupWithShift struct {
	Signup domain.Signup
	Shift  domain.Shift
}

// SignupRepository encapsulates signup persistence.
type SignupRepository interface {
	Create(ctx context.Context, signup *domain.Signup) error
	Update(ctx context.Context, signup *domain.Signup) error
	GetByID(ctx context.Context, id string) (*domain.Signup, error)
	// GetActiveByShiftAndUser returns the non-CANCELED signup for the
	// pair, or pgx.ErrNoRows.
	GetActiveByShiftAndUser(ctx context.Context, shiftID, userID string) (*domain.Signup, error)
	// ListActiveForUserBetween returns the user's non-CANCELED signups
	// whose shifts start in [from, to), joined with their shifts.
	ListActiveForUserBetween(ctx context.Context, userID string, from, to time.Time) ([]SignupWithShift, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]SignupWithShift, error)
	ListByShift(ctx context.Context, shiftID string) ([]domain.Signup, error)
	CountByShiftAndStatus(ctx context.Context, shiftID string, status domain.SignupStatus) (int, error)
	// OldestWaitlisted returns the earliest-created WAITLISTED signup
	// for the shift, or pgx.ErrNoRows.
	OldestWaitlisted(ctx context.Context, shiftID string) (*domain.Signup, error)
	CountFutureActiveByShift(ctx context.Context, shiftID string, now time.Time) (int, error)
	CountCompletedByUser(ctx context.Context, userID string, now time.Time) (int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error)
	WithTx(tx DB) SignupRepository
}

type signupRepository struct {
	db DB
}

// NewSignupRepository instantiates repository.
func NewSignupRepository(db DB) SignupRepository {
	return &signupRepository{db: db}
}

func (r *signupRepository) WithTx(tx DB) SignupRepository {
	return &signupRepository{db: tx}
}

const signupColumns = `id, shift_id, user_id, status, previous_status, origin, note, created_at, updated_at, canceled_at`

func (r *signupRepository) Create(ctx context.Context, signup *domain.Signup) error {
	const query = `
        INSERT INTO signups (shift_id, user_id, status, origin, note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		signup.ShiftID,
		signup.UserID,
		signup.Status,
		signup.Origin,
		signup.Note,
	).Scan(&signup.ID, &signup.CreatedAt, &signup.UpdatedAt)
}

func (r *signupRepository) Update(ctx context.Context, signup *domain.Signup) error {
	const query = `
        UPDATE signups SET status=$1, previous_status=$2, note=$3, canceled_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		signup.Status,
		signup.PreviousStatus,
		signup.Note,
		signup.CanceledAt,
		signup.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *signupRepository) GetByID(ctx context.Context, id string) (*domain.Signup, error) {
	return r.fetchSingle(ctx, `SELECT `+signupColumns+` FROM signups WHERE id=$1`, id)
}

func (r *signupRepository) GetActiveByShiftAndUser(ctx context.Context, shiftID, userID string) (*domain.Signup, error) {
	const query = `SELECT ` + signupColumns + ` FROM signups
        WHERE shift_id=$1 AND user_id=$2 AND status <> 'CANCELED'`
	return r.fetchSingle(ctx, query, shiftID, userID)
}

func (r *signupRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Signup, error) {
	var signup domain.Signup
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&signup.ID,
		&signup.ShiftID,
		&signup.UserID,
		&signup.Status,
		&signup.PreviousStatus,
		&signup.Origin,
		&signup.Note,
		&signup.CreatedAt,
		&signup.UpdatedAt,
		&signup.CanceledAt,
	); err != nil {
		return nil, err
	}
	return &signup, nil
}

const signupShiftColumns = `
        s.id, s.shift_id, s.user_id, s.status, s.previous_status, s.origin, s.note, s.created_at, s.updated_at, s.canceled_at,
        sh.id, sh.location, sh.shift_type_id, sh.starts_at, sh.ends_at, sh.capacity, sh.placeholder_count, sh.note, sh.created_at, sh.updated_at`

func (r *signupRepository) ListActiveForUserBetween(ctx context.Context, userID string, from, to time.Time) ([]SignupWithShift, error) {
	const query = `
        SELECT ` + signupShiftColumns + `
        FROM signups s JOIN shifts sh ON sh.id = s.shift_id
        WHERE s.user_id=$1 AND s.status <> 'CANCELED' AND sh.starts_at >= $2 AND sh.starts_at < $3
        ORDER BY sh.starts_at ASC`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSignupsWithShift(rows)
}

func (r *signupRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]SignupWithShift, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ` + signupShiftColumns + `
        FROM signups s JOIN shifts sh ON sh.id = s.shift_id
        WHERE s.user_id=$1
        ORDER BY sh.starts_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSignupsWithShift(rows)
}

func scanSignupsWithShift(rows pgx.Rows) ([]SignupWithShift, error) {
	var result []SignupWithShift
	for rows.Next() {
		var item SignupWithShift
		if err := rows.Scan(
			&item.Signup.ID,
			&item.Signup.ShiftID,
			&item.Signup.UserID,
			&item.Signup.Status,
			&item.Signup.PreviousStatus,
			&item.Signup.Origin,
			&item.Signup.Note,
			&item.Signup.CreatedAt,
			&item.Signup.UpdatedAt,
			&item.Signup.CanceledAt,
			&item.Shift.ID,
			&item.Shift.Location,
			&item.Shift.ShiftTypeID,
			&item.Shift.StartsAt,
			&item.Shift.EndsAt,
			&item.Shift.Capacity,
			&item.Shift.PlaceholderCount,
			&item.Shift.Note,
			&item.Shift.CreatedAt,
			&item.Shift.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *signupRepository) ListByShift(ctx context.Context, shiftID string) ([]domain.Signup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+signupColumns+` FROM signups WHERE shift_id=$1 ORDER BY created_at ASC`, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Signup
	for rows.Next() {
		var signup domain.Signup
		if err := rows.Scan(
			&signup.ID,
			&signup.ShiftID,
			&signup.UserID,
			&signup.Status,
			&signup.PreviousStatus,
			&signup.Origin,
			&signup.Note,
			&signup.CreatedAt,
			&signup.UpdatedAt,
			&signup.CanceledAt,
		); err != nil {
			return nil, err
		}
		result = append(result, signup)
	}
	return result, rows.Err()
}

func (r *signupRepository) CountByShiftAndStatus(ctx context.Context, shiftID string, status domain.SignupStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM signups WHERE shift_id=$1 AND status=$2`, shiftID, status).Scan(&count)
	return count, err
}

func (r *signupRepository) OldestWaitlisted(ctx context.Context, shiftID string) (*domain.Signup, error) {
	const query = `SELECT ` + signupColumns + ` FROM signups
        WHERE shift_id=$1 AND status='WAITLISTED'
        ORDER BY created_at ASC LIMIT 1`
	return r.fetchSingle(ctx, query, shiftID)
}

func (r *signupRepository) CountFutureActiveByShift(ctx context.Context, shiftID string, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM signups s JOIN shifts sh ON sh.id = s.shift_id
        WHERE s.shift_id=$1 AND s.status <> 'CANCELED' AND sh.starts_at > $2`,
		shiftID, now).Scan(&count)
	return count, err
}

func (r *signupRepository) CountCompletedByUser(ctx context.Context, userID string, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM signups s JOIN shifts sh ON sh.id = s.shift_id
        WHERE s.user_id=$1 AND s.status='CONFIRMED' AND sh.ends_at < $2`,
		userID, now).Scan(&count)
	return count, err
}

func (r *signupRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM signups WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

// ReassignUser moves the duplicate's signups to the primary account,
// skipping shifts where the primary already holds an active signup.
func (r *signupRepository) ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error) {
	cmd, err := r.db.Exec(ctx, `
        UPDATE signups SET user_id=$2, updated_at=NOW()
        WHERE user_id=$1 AND NOT EXISTS (
            SELECT 1 FROM signups other
            WHERE other.shift_id = signups.shift_id AND other.user_id=$2 AND other.status <> 'CANCELED'
        )`, fromUserID, toUserID)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}
