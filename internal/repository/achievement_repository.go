package repository

import (
	"context"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// AchievementRepository encapsulates achievement persistence.
type AchievementRepository interface {
	Create(ctx context.Context, achievement *domain.Achievement) error
	ListByUser(ctx context.Context, userID string) ([]domain.Achievement, error)
	Exists(ctx context.Context, userID string, kind domain.AchievementKind) (bool, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error)
	WithTx(tx DB) AchievementRepository
}

type achievementRepository struct {
	db DB
}

// NewAchievementRepository instantiates repository.
func NewAchievementRepository(db DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) WithTx(tx DB) AchievementRepository {
	return &achievementRepository{db: tx}
}

func (r *achievementRepository) Create(ctx context.Context, achievement *domain.Achievement) error {
	const query = `
        INSERT INTO achievements (user_id, kind)
        VALUES ($1,$2)
        ON CONFLICT (user_id, kind) DO NOTHING
        RETURNING id, awarded_at`
	return r.db.QueryRow(ctx, query,
		achievement.UserID,
		achievement.Kind,
	).Scan(&achievement.ID, &achievement.AwardedAt)
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID string) ([]domain.Achievement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, kind, awarded_at FROM achievements WHERE user_id=$1 ORDER BY awarded_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.AwardedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *achievementRepository) Exists(ctx context.Context, userID string, kind domain.AchievementKind) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM achievements WHERE user_id=$1 AND kind=$2)`,
		userID, kind).Scan(&exists)
	return exists, err
}

func (r *achievementRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM achievements WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

// ReassignUser moves awards to the primary account, dropping kinds the
// primary already earned.
func (r *achievementRepository) ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error) {
	cmd, err := r.db.Exec(ctx, `
        UPDATE achievements SET user_id=$2
        WHERE user_id=$1 AND NOT EXISTS (
            SELECT 1 FROM achievements other
            WHERE other.user_id=$2 AND other.kind = achievements.kind
        )`, fromUserID, toUserID)
	if err != nil {
		return 0, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM achievements WHERE user_id=$1`, fromUserID); err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}
