package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// RegularScheduleRepository encapsulates recurring-assignment persistence.
type RegularScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.RegularSchedule) error
	GetByID(ctx context.Context, id string) (*domain.RegularSchedule, error)
	ListActive(ctx context.Context) ([]domain.RegularSchedule, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RegularSchedule, error)
	Deactivate(ctx context.Context, id string) error
}

type regularScheduleRepository struct {
	db DB
}

// NewRegularScheduleRepository instantiates repository.
func NewRegularScheduleRepository(db DB) RegularScheduleRepository {
	return &regularScheduleRepository{db: db}
}

const scheduleColumns = `id, user_id, shift_type_id, location, rule, active, created_at`

func (r *regularScheduleRepository) Create(ctx context.Context, schedule *domain.RegularSchedule) error {
	const query = `
        INSERT INTO regular_schedules (user_id, shift_type_id, location, rule, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		schedule.UserID,
		schedule.ShiftTypeID,
		schedule.Location,
		schedule.Rule,
		schedule.Active,
	).Scan(&schedule.ID, &schedule.CreatedAt)
}

func (r *regularScheduleRepository) GetByID(ctx context.Context, id string) (*domain.RegularSchedule, error) {
	var schedule domain.RegularSchedule
	if err := r.db.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM regular_schedules WHERE id=$1`, id).Scan(
		&schedule.ID,
		&schedule.UserID,
		&schedule.ShiftTypeID,
		&schedule.Location,
		&schedule.Rule,
		&schedule.Active,
		&schedule.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *regularScheduleRepository) ListActive(ctx context.Context) ([]domain.RegularSchedule, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+` FROM regular_schedules WHERE active ORDER BY created_at ASC`)
}

func (r *regularScheduleRepository) ListByUser(ctx context.Context, userID string) ([]domain.RegularSchedule, error) {
	return r.list(ctx,
		`SELECT `+scheduleColumns+` FROM regular_schedules WHERE user_id=$1 ORDER BY created_at ASC`, userID)
}

func (r *regularScheduleRepository) list(ctx context.Context, query string, args ...any) ([]domain.RegularSchedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RegularSchedule
	for rows.Next() {
		var schedule domain.RegularSchedule
		if err := rows.Scan(
			&schedule.ID,
			&schedule.UserID,
			&schedule.ShiftTypeID,
			&schedule.Location,
			&schedule.Rule,
			&schedule.Active,
			&schedule.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, schedule)
	}
	return result, rows.Err()
}

func (r *regularScheduleRepository) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE regular_schedules SET active=false WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
