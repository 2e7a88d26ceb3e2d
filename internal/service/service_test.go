package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/storage/storagetest"
	"fleet_tracker/internal/utils"
)

var jakarta = mustLoad("Asia/Jakarta")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	repos    *repository.Repositories
	services *Services
	tokens   *utils.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.NewRepositories(storagetest.NewTestDB(t))
	tokens := utils.NewTokenManager("access", "refresh", 15*time.Minute, time.Hour)
	services := NewServices(repos, Options{
		Tokens:     tokens,
		BcryptCost: bcrypt.MinCost,
		Location:   jakarta,
	})
	return &fixture{repos: repos, services: services, tokens: tokens}
}

func (f *fixture) register(t *testing.T, email string, role models.UserRole) *AuthResult {
	t.Helper()
	res, err := f.services.Auth.Register(context.Background(), RegisterParams{
		Email:    email,
		Password: "Passw0rd",
		Name:     "Test User",
		Role:     role,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) vehicle(t *testing.T, plate string) *models.Vehicle {
	t.Helper()
	v, err := f.services.Vehicle.Create(context.Background(), CreateVehicleParams{
		PlateNumber: plate,
		Model:       "Avanza",
		Brand:       "Toyota",
		Year:        2020,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) record(t *testing.T, vehicleID string, status models.StatusType, at time.Time) {
	t.Helper()
	_, err := f.services.Vehicle.RecordStatus(context.Background(), vehicleID, RecordStatusParams{
		Status:    status,
		Latitude:  ptr(-6.2088),
		Longitude: ptr(106.8456),
		Speed:     ptr(40.0),
		Timestamp: &at,
	})
	require.NoError(t, err)
}
