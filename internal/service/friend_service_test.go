package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/volunteer-service/internal/domain"
)

func newTestFriendService(t *testing.T) (*FriendService, *fakeFriendRepo, *fakeUserRepo) {
	t.Helper()
	friends := newFakeFriendRepo()
	users := newFakeUserRepo()
	svc := NewFriendService(friends, users)
	svc.now = func() time.Time { return testNow }
	return svc, friends, users
}

func TestFriendRequest(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)

	link, err := svc.Request(context.Background(), requester, addressee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusPending, link.Status)
	assert.Equal(t, requester.ID, link.RequesterID)
	assert.Equal(t, addressee.ID, link.AddresseeID)
}

func TestFriendRequestRejectsSelf(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)

	_, err := svc.Request(context.Background(), requester, requester.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot befriend yourself")
}

func TestFriendRequestUnknownAddressee(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)

	_, err := svc.Request(context.Background(), requester, uuid.NewString())
	require.Error(t, err)
}

func TestFriendRequestRejectsDisabledAddressee(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)
	addressee.Status = domain.UserStatusDisabled
	require.NoError(t, users.Update(context.Background(), addressee))

	_, err := svc.Request(context.Background(), requester, addressee.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestFriendRequestRejectsDuplicateEitherDirection(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)

	_, err := svc.Request(context.Background(), requester, addressee.ID)
	require.NoError(t, err)

	_, err = svc.Request(context.Background(), requester, addressee.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Reversed direction collides with the same link.
	_, err = svc.Request(context.Background(), addressee, requester.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFriendAccept(t *testing.T) {
	svc, friends, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)

	link, err := svc.Request(context.Background(), requester, addressee.ID)
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), addressee, link.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	assert.True(t, accepted.AcceptedAt.Equal(testNow))

	stored, err := friends.GetByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendStatusAccepted, stored.Status)
}

func TestFriendAcceptOnlyByAddressee(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)
	other := seedVolunteer(t, users, 2, 0)

	link, err := svc.Request(context.Background(), requester, addressee.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), requester, link.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not your friend request")

	_, err = svc.Accept(context.Background(), other, link.ID)
	require.Error(t, err)
}

func TestFriendAcceptRejectsHandledRequest(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)

	link, err := svc.Request(context.Background(), requester, addressee.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), addressee, link.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), addressee, link.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already handled")
}

func TestFriendListForUser(t *testing.T) {
	svc, _, users := newTestFriendService(t)
	requester := seedVolunteer(t, users, 2, 0)
	addressee := seedVolunteer(t, users, 2, 0)
	bystander := seedVolunteer(t, users, 2, 0)

	_, err := svc.Request(context.Background(), requester, addressee.ID)
	require.NoError(t, err)

	links, err := svc.ListForUser(context.Background(), addressee.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	links, err = svc.ListForUser(context.Background(), bystander.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}
