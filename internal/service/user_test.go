package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet_tracker/internal/models"
)

func TestUserServiceCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "admin@example.com", models.RoleAdmin)

	created, err := f.services.User.Create(ctx, RegisterParams{
		Email: "New@Example.com", Password: "Passw0rd", Name: "New User", Role: models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", created.Email)

	page, err := f.services.User.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalCount)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	updated, err := f.services.User.Update(ctx, created.ID, UpdateUserParams{
		Name: ptr("Renamed"),
		Role: ptr(models.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = f.services.User.Update(ctx, created.ID, UpdateUserParams{Email: ptr("ADMIN@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	assert.ErrorIs(t, f.services.User.Delete(ctx, admin.User.ID, admin.User.ID), ErrSelfDelete)
	require.NoError(t, f.services.User.Delete(ctx, admin.User.ID, created.ID))
	assert.ErrorIs(t, f.services.User.Delete(ctx, admin.User.ID, created.ID), ErrUserNotFound)

	_, err = f.services.User.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServicePasswordChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "frank@example.com", models.RoleUser)

	_, err := f.services.User.Update(ctx, reg.User.ID, UpdateUserParams{Password: ptr("N3wSecret")})
	require.NoError(t, err)

	_, err = f.services.Auth.Login(ctx, "frank@example.com", "Passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.services.Auth.Login(ctx, "frank@example.com", "N3wSecret")
	assert.NoError(t, err)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 3, TotalCount: 21, Limit: 10}, newPagination(2, 10, 21))
	assert.Equal(t, 0, newPagination(1, 10, 0).TotalPages)
}
