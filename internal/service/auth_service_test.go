package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 30
	cfg.Auth.BcryptCost = 4

	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, users
}

func TestRegisterUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, token, exp, err := svc.RegisterUser(context.Background(), "Vol Unteer", "Vol@Example.com ", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "vol@example.com", user.Email)
	assert.Equal(t, domain.RoleVolunteer, user.Role)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.Equal(t, 1, user.VolunteerGrade)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, _, err := svc.RegisterUser(context.Background(), "One", "dup@example.com", "s3cretpass")
	require.NoError(t, err)

	_, _, _, err = svc.RegisterUser(context.Background(), "Two", "DUP@example.com", "s3cretpass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterUserPublishesEvent(t *testing.T) {
	svc, _ := newTestAuthService(t)

	var published []events.Event
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUserRegistered, func(ctx context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})
	svc.dispatcher = dispatcher

	user, _, _, err := svc.RegisterUser(context.Background(), "Vol Unteer", "evt@example.com", "s3cretpass")
	require.NoError(t, err)
	require.Len(t, published, 1)

	payload, ok := published[0].Payload.(events.UserRegisteredPayload)
	require.True(t, ok)
	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, "evt@example.com", payload.Email)
}

func TestLoginUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	registered, _, _, err := svc.RegisterUser(context.Background(), "Vol Unteer", "login@example.com", "s3cretpass")
	require.NoError(t, err)

	user, token, _, err := svc.LoginUser(context.Background(), "login@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestLoginUserRejectsBadPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, _, err := svc.RegisterUser(context.Background(), "Vol Unteer", "badpw@example.com", "s3cretpass")
	require.NoError(t, err)

	_, _, _, err = svc.LoginUser(context.Background(), "badpw@example.com", "wrongpass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	_, _, _, err = svc.LoginUser(context.Background(), "nobody@example.com", "s3cretpass")
	require.Error(t, err)
}

func TestLoginUserRejectsDisabledAccount(t *testing.T) {
	svc, users := newTestAuthService(t)

	user, _, _, err := svc.RegisterUser(context.Background(), "Vol Unteer", "off@example.com", "s3cretpass")
	require.NoError(t, err)

	user.Status = domain.UserStatusDisabled
	require.NoError(t, users.Update(context.Background(), user))

	_, _, _, err = svc.LoginUser(context.Background(), "off@example.com", "s3cretpass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account disabled")
}
