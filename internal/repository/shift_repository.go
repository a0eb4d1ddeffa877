package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// ShiftFilter captures shift search parameters.
type ShiftFilter struct {
	Location    *string
	ShiftTypeID *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// ShiftRepository encapsulates shift persistence.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) error
	Update(ctx context.Context, shift *domain.Shift) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	// GetByIDForUpdate locks the shift row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Shift, error)
	ListWithFilter(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error)
	GetTypeByID(ctx context.Context, id string) (*domain.ShiftType, error)
	ListTypes(ctx context.Context) ([]domain.ShiftType, error)
	WithTx(tx DB) ShiftRepository
}

type shiftRepository struct {
	db DB
}

// NewShiftRepository instantiates repository.
func NewShiftRepository(db DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) WithTx(tx DB) ShiftRepository {
	return &shiftRepository{db: tx}
}

const shiftColumns = `id, location, shift_type_id, starts_at, ends_at, capacity, placeholder_count, note, created_at, updated_at`

func (r *shiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	const query = `
        INSERT INTO shifts (location, shift_type_id, starts_at, ends_at, capacity, placeholder_count, note)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		shift.Location,
		shift.ShiftTypeID,
		shift.StartsAt,
		shift.EndsAt,
		shift.Capacity,
		shift.PlaceholderCount,
		shift.Note,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
}

func (r *shiftRepository) Update(ctx context.Context, shift *domain.Shift) error {
	const query = `
        UPDATE shifts SET location=$1, shift_type_id=$2, starts_at=$3, ends_at=$4,
            capacity=$5, placeholder_count=$6, note=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.db.Exec(ctx, query,
		shift.Location,
		shift.ShiftTypeID,
		shift.StartsAt,
		shift.EndsAt,
		shift.Capacity,
		shift.PlaceholderCount,
		shift.Note,
		shift.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM shifts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	return r.fetchSingle(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id=$1`, id)
}

func (r *shiftRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Shift, error) {
	return r.fetchSingle(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id=$1 FOR UPDATE`, id)
}

func (r *shiftRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Shift, error) {
	var shift domain.Shift
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&shift.ID,
		&shift.Location,
		&shift.ShiftTypeID,
		&shift.StartsAt,
		&shift.EndsAt,
		&shift.Capacity,
		&shift.PlaceholderCount,
		&shift.Note,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) ListWithFilter(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Location != nil {
		args = append(args, *filter.Location)
		clauses = append(clauses, fmt.Sprintf("location=$%d", len(args)))
	}
	if filter.ShiftTypeID != nil {
		args = append(args, *filter.ShiftTypeID)
		clauses = append(clauses, fmt.Sprintf("shift_type_id=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("starts_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("starts_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE %s ORDER BY starts_at ASC LIMIT %d OFFSET %d`,
		shiftColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Shift
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(
			&shift.ID,
			&shift.Location,
			&shift.ShiftTypeID,
			&shift.StartsAt,
			&shift.EndsAt,
			&shift.Capacity,
			&shift.PlaceholderCount,
			&shift.Note,
			&shift.CreatedAt,
			&shift.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, shift)
	}
	return result, rows.Err()
}

func (r *shiftRepository) GetTypeByID(ctx context.Context, id string) (*domain.ShiftType, error) {
	var st domain.ShiftType
	if err := r.db.QueryRow(ctx,
		`SELECT id, name, approval_only FROM shift_types WHERE id=$1`, id).Scan(
		&st.ID, &st.Name, &st.ApprovalOnly,
	); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *shiftRepository) ListTypes(ctx context.Context) ([]domain.ShiftType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, approval_only FROM shift_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ShiftType
	for rows.Next() {
		var st domain.ShiftType
		if err := rows.Scan(&st.ID, &st.Name, &st.ApprovalOnly); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}
