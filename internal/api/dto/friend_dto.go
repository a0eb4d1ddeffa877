package dto

import (
	"time"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

// FriendRequestRequest payload.
type FriendRequestRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// FriendLinkResponse is the public link shape.
type FriendLinkResponse struct {
	ID          string              `json:"id"`
	RequesterID string              `json:"requester_id"`
	AddresseeID string              `json:"addressee_id"`
	Status      domain.FriendStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	AcceptedAt  *time.Time          `json:"accepted_at,omitempty"`
}
