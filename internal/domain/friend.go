package domain

import "time"

// FriendStatus tracks the request lifecycle.
type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "PENDING"
	FriendStatusAccepted FriendStatus = "ACCEPTED"
)

// FriendLink connects two volunteers. RequesterID initiated the link.
type FriendLink struct {
	ID          string
	RequesterID string
	AddresseeID string
	Status      FriendStatus
	CreatedAt   time.Time
	AcceptedAt  *time.Time
}
