package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg := f.register(t, "Alice@Example.com", "")
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.True(t, reg.User.IsActive)
	assert.NotEqual(t, "Passw0rd", reg.User.Password)
	assert.NotEmpty(t, reg.Tokens.AccessToken)

	res, err := f.services.Auth.Login(ctx, "ALICE@example.com", "Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	claims, err := f.tokens.ParseAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob@example.com", models.RoleAdmin)

	_, err := f.services.Auth.Register(context.Background(), RegisterParams{
		Email: "BOB@example.com", Password: "Passw0rd", Name: "Bob",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "carol@example.com", models.RoleUser)

	_, err := f.services.Auth.Login(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.services.Auth.Login(ctx, "nobody@example.com", "Passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.services.User.Update(ctx, reg.User.ID, UpdateUserParams{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.services.Auth.Login(ctx, "carol@example.com", "Passw0rd")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestRefreshRotatesTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "dave@example.com", models.RoleUser)

	pair, err := f.services.Auth.Refresh(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.Tokens.RefreshToken, pair.RefreshToken)

	_, err = f.services.Auth.Refresh(ctx, reg.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = f.services.Auth.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = f.services.User.Update(ctx, reg.User.ID, UpdateUserParams{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = f.services.Auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "erin@example.com", models.RoleAdmin)

	user, err := f.services.Auth.Authenticate(ctx, reg.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = f.services.Auth.Authenticate(ctx, "nope")
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)

	orphan, err := f.tokens.GeneratePair("missing-user")
	require.NoError(t, err)
	_, err = f.services.Auth.Authenticate(ctx, orphan.AccessToken)
	assert.ErrorIs(t, err, ErrInactiveUser)

	assert.NoError(t, f.services.Auth.Logout(ctx, user.ID))
}
