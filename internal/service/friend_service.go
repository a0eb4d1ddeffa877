package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/repository"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

// FriendService manages volunteer friend links.
type FriendService struct {
	friends repository.FriendRepository
	users   repository.UserRepository
	now     func() time.Time
}

// NewFriendService constructs the service.
func NewFriendService(friends repository.FriendRepository, users repository.UserRepository) *FriendService {
	return &FriendService{friends: friends, users: users, now: time.Now}
}

// Request creates a pending link toward another volunteer.
func (s *FriendService) Request(ctx context.Context, requester *domain.User, addresseeID string) (*domain.FriendLink, error) {
	if requester.ID == addresseeID {
		return nil, apperrors.NewValidationError("cannot befriend yourself", nil)
	}
	addressee, err := s.users.GetByID(ctx, addresseeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": addresseeID})
		}
		return nil, apperrors.MapError(err)
	}
	if addressee.Status != domain.UserStatusActive {
		return nil, apperrors.NewConflict("user account is not active", nil)
	}

	if _, err := s.friends.GetBetween(ctx, requester.ID, addresseeID); err == nil {
		return nil, apperrors.NewConflict("friend link already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	link := &domain.FriendLink{
		RequesterID: requester.ID,
		AddresseeID: addresseeID,
		Status:      domain.FriendStatusPending,
	}
	if err := s.friends.Create(ctx, link); err != nil {
		return nil, apperrors.MapError(err)
	}
	return link, nil
}

// Accept confirms a pending request. Only the addressee may accept.
func (s *FriendService) Accept(ctx context.Context, user *domain.User, linkID string) (*domain.FriendLink, error) {
	link, err := s.friends.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("friend request", map[string]any{"request_id": linkID})
		}
		return nil, apperrors.MapError(err)
	}
	if link.AddresseeID != user.ID {
		return nil, apperrors.NewForbidden("not your friend request")
	}
	if link.Status != domain.FriendStatusPending {
		return nil, apperrors.NewConflict("request already handled", nil)
	}

	now := s.now()
	link.Status = domain.FriendStatusAccepted
	link.AcceptedAt = &now
	if err := s.friends.Update(ctx, link); err != nil {
		return nil, apperrors.MapError(err)
	}
	return link, nil
}

// ListForUser returns the user's links in both directions.
func (s *FriendService) ListForUser(ctx context.Context, userID string) ([]domain.FriendLink, error) {
	links, err := s.friends.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return links, nil
}
