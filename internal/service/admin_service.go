package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// MergePreview tallies the duplicate account's rows per relation so an
// admin can review what a merge will move.
type MergePreview struct {
	PrimaryID       string
	DuplicateID     string
	Signups         int
	Achievements    int
	SurveyResponses int
	FriendLinks     int
}

// MergeResult reports how many rows each relation actually moved.
// Moved counts can be lower than the preview when the primary already
// held a colliding row (same shift, same survey, same friend pair).
type MergeResult struct {
	SignupsMoved         int
	AchievementsMoved    int
	SurveyResponsesMoved int
	FriendLinksMoved     int
}

// AdminService covers account administration, chiefly duplicate-user
// merging.
type AdminService struct {
	users        repository.UserRepository
	signups      repository.SignupRepository
	achievements repository.AchievementRepository
	surveys      repository.SurveyRepository
	friends      repository.FriendRepository
	tx           repository.TxRunner
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	UserRepo        repository.UserRepository
	SignupRepo      repository.SignupRepository
	AchievementRepo repository.AchievementRepository
	SurveyRepo      repository.SurveyRepository
	FriendRepo      repository.FriendRepository
	TxRunner        repository.TxRunner
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		users:        deps.UserRepo,
		signups:      deps.SignupRepo,
		achievements: deps.AchievementRepo,
		surveys:      deps.SurveyRepo,
		friends:      deps.FriendRepo,
		tx:           deps.TxRunner,
	}
}

// ListUsers returns paginated accounts for the admin dashboard.
func (s *AdminService) ListUsers(ctx context.Context, admin *domain.User, limit, offset int) ([]domain.User, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// MergePreviewFor counts the duplicate's relations ahead of a merge.
func (s *AdminService) MergePreviewFor(ctx context.Context, admin *domain.User, primaryID, duplicateID string) (*MergePreview, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if _, _, err := s.loadMergePair(ctx, primaryID, duplicateID); err != nil {
		return nil, err
	}

	preview := &MergePreview{PrimaryID: primaryID, DuplicateID: duplicateID}
	var err error
	if preview.Signups, err = s.signups.CountByUser(ctx, duplicateID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if preview.Achievements, err = s.achievements.CountByUser(ctx, duplicateID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if preview.SurveyResponses, err = s.surveys.CountResponsesByUser(ctx, duplicateID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if preview.FriendLinks, err = s.friends.CountByUser(ctx, duplicateID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return preview, nil
}

// MergeUsers folds the duplicate account into the primary inside one
// transaction. Collisions keep the primary's row; the duplicate ends up
// MERGED and unable to log in.
func (s *AdminService) MergeUsers(ctx context.Context, admin *domain.User, primaryID, duplicateID string) (*MergeResult, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	primary, duplicate, err := s.loadMergePair(ctx, primaryID, duplicateID)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{}
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		users := s.users.WithTx(tx)
		signups := s.signups.WithTx(tx)
		achievements := s.achievements.WithTx(tx)
		surveys := s.surveys.WithTx(tx)
		friends := s.friends.WithTx(tx)

		var err error
		if result.SignupsMoved, err = signups.ReassignUser(ctx, duplicate.ID, primary.ID); err != nil {
			return apperrors.MapError(err)
		}
		if result.AchievementsMoved, err = achievements.ReassignUser(ctx, duplicate.ID, primary.ID); err != nil {
			return apperrors.MapError(err)
		}
		if result.SurveyResponsesMoved, err = surveys.ReassignUser(ctx, duplicate.ID, primary.ID); err != nil {
			return apperrors.MapError(err)
		}
		if result.FriendLinksMoved, err = friends.ReassignUser(ctx, duplicate.ID, primary.ID); err != nil {
			return apperrors.MapError(err)
		}

		duplicate.Status = domain.UserStatusMerged
		duplicate.MergedIntoID = &primary.ID
		if err := users.Update(ctx, duplicate); err != nil {
			return apperrors.MapError(err)
		}

		// The primary keeps the higher reliability penalty.
		if duplicate.NoShowCount > primary.NoShowCount {
			primary.NoShowCount = duplicate.NoShowCount
			if err := users.Update(ctx, primary); err != nil {
				return apperrors.MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AdminService) loadMergePair(ctx context.Context, primaryID, duplicateID string) (*domain.User, *domain.User, error) {
	if primaryID == duplicateID {
		return nil, nil, apperrors.NewValidationError("cannot merge an account into itself", nil)
	}
	primary, err := s.users.GetByID(ctx, primaryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("primary user", map[string]any{"user_id": primaryID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	duplicate, err := s.users.GetByID(ctx, duplicateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("duplicate user", map[string]any{"user_id": duplicateID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if duplicate.Status == domain.UserStatusMerged {
		return nil, nil, apperrors.NewConflict("account was already merged", nil)
	}
	return primary, duplicate, nil
}
