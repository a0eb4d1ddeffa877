package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// FriendRepository encapsulates friend-link persistence.
type FriendRepository interface {
	Create(ctx context.Context, link *domain.FriendLink) error
	Update(ctx context.Context, link *domain.FriendLink) error
	GetByID(ctx context.Context, id string) (*domain.FriendLink, error)
	// GetBetween returns the link between two users in either
	// direction, or pgx.ErrNoRows.
	GetBetween(ctx context.Context, userA, userB string) (*domain.FriendLink, error)
	ListForUser(ctx context.Context, userID string) ([]domain.FriendLink, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error)
	WithTx(tx DB) FriendRepository
}

type friendRepository struct {
	db DB
}

// NewFriendRepository instantiates repository.
func NewFriendRepository(db DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) WithTx(tx DB) FriendRepository {
	return &friendRepository{db: tx}
}

const friendColumns = `id, requester_id, addressee_id, status, created_at, accepted_at`

func (r *friendRepository) Create(ctx context.Context, link *domain.FriendLink) error {
	const query = `
        INSERT INTO friend_links (requester_id, addressee_id, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		link.RequesterID,
		link.AddresseeID,
		link.Status,
	).Scan(&link.ID, &link.CreatedAt)
}

func (r *friendRepository) Update(ctx context.Context, link *domain.FriendLink) error {
	const query = `UPDATE friend_links SET status=$1, accepted_at=$2 WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, link.Status, link.AcceptedAt, link.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id string) (*domain.FriendLink, error) {
	return r.fetchSingle(ctx, `SELECT `+friendColumns+` FROM friend_links WHERE id=$1`, id)
}

func (r *friendRepository) GetBetween(ctx context.Context, userA, userB string) (*domain.FriendLink, error) {
	const query = `SELECT ` + friendColumns + ` FROM friend_links
        WHERE (requester_id=$1 AND addressee_id=$2) OR (requester_id=$2 AND addressee_id=$1)`
	return r.fetchSingle(ctx, query, userA, userB)
}

func (r *friendRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.FriendLink, error) {
	var link domain.FriendLink
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&link.ID,
		&link.RequesterID,
		&link.AddresseeID,
		&link.Status,
		&link.CreatedAt,
		&link.AcceptedAt,
	); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *friendRepository) ListForUser(ctx context.Context, userID string) ([]domain.FriendLink, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+friendColumns+` FROM friend_links
         WHERE requester_id=$1 OR addressee_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FriendLink
	for rows.Next() {
		var link domain.FriendLink
		if err := rows.Scan(
			&link.ID,
			&link.RequesterID,
			&link.AddresseeID,
			&link.Status,
			&link.CreatedAt,
			&link.AcceptedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, link)
	}
	return result, rows.Err()
}

func (r *friendRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM friend_links WHERE requester_id=$1 OR addressee_id=$1`,
		userID).Scan(&count)
	return count, err
}

// ReassignUser re-points the duplicate's links to the primary, then
// drops links that became self-referential or duplicated an existing
// pair.
func (r *friendRepository) ReassignUser(ctx context.Context, fromUserID, toUserID string) (int, error) {
	cmd, err := r.db.Exec(ctx, `
        UPDATE friend_links SET requester_id=$2 WHERE requester_id=$1`, fromUserID, toUserID)
	if err != nil {
		return 0, err
	}
	moved := cmd.RowsAffected()
	cmd, err = r.db.Exec(ctx, `
        UPDATE friend_links SET addressee_id=$2 WHERE addressee_id=$1`, fromUserID, toUserID)
	if err != nil {
		return 0, err
	}
	moved += cmd.RowsAffected()
	if _, err := r.db.Exec(ctx, `
        DELETE FROM friend_links a
        WHERE a.requester_id = a.addressee_id
           OR EXISTS (
            SELECT 1 FROM friend_links b
            WHERE b.id < a.id
              AND ((b.requester_id = a.requester_id AND b.addressee_id = a.addressee_id)
               OR (b.requester_id = a.addressee_id AND b.addressee_id = a.requester_id))
        )`); err != nil {
		return 0, err
	}
	return int(moved), nil
}
