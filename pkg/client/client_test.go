package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fleet_tracker/internal/api"
	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/service"
	"fleet_tracker/internal/storage/storagetest"
	"fleet_tracker/internal/utils"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fakeServer 只接受 access token "fresh"，refresh token "r1" 可換到 fresh
func fakeServer(t *testing.T, refreshCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(refreshCalls, 1)
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != "r1" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    Tokens{AccessToken: "fresh", RefreshToken: "r2"},
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": User{ID: "u1", Email: "a@b.c"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshesOnUnauthorizedAndRetries(t *testing.T) {
	var calls int32
	srv := fakeServer(t, &calls)

	var saved []Tokens
	c := New(srv.URL,
		WithTokens(Tokens{AccessToken: "stale", RefreshToken: "r1"}),
		WithTokenHook(func(t Tokens) { saved = append(saved, t) }),
	)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, Tokens{AccessToken: "fresh", RefreshToken: "r2"}, c.Tokens())
	assert.Equal(t, []Tokens{{AccessToken: "fresh", RefreshToken: "r2"}}, saved)

	// 已是新的 token，不再換發
	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)
}

func TestFailedRefreshClearsSession(t *testing.T) {
	var calls int32
	srv := fakeServer(t, &calls)

	c := New(srv.URL, WithTokens(Tokens{AccessToken: "stale", RefreshToken: "revoked"}))
	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, Tokens{}, c.Tokens())

	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, int32(1), calls)
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewRepositories(storagetest.NewTestDB(t))
	services := service.NewServices(repos, service.Options{
		Tokens:     utils.NewTokenManager("access", "refresh", time.Minute, time.Hour),
		BcryptCost: bcrypt.MinCost,
		Location:   time.UTC,
	})
	r := gin.New()
	require.NoError(t, api.SetupRoutes(r, services, api.Options{CORSOrigin: "*"}))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientAgainstAPI(t *testing.T) {
	ctx := context.Background()
	c := New(newAPIServer(t).URL)

	_, err := c.Login(ctx, "nobody@example.com", "Passw0rd")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	res, err := c.Register(ctx, "fleet@example.com", "Passw0rd", "Fleet Ops", "USER")
	require.NoError(t, err)
	assert.Equal(t, "fleet@example.com", res.User.Email)
	assert.NotEmpty(t, c.Tokens().AccessToken)

	_, err = c.CreateVehicle(ctx, VehicleInput{PlateNumber: "bad plate", Model: "X", Brand: "Y", Year: 2020})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Validation error", apiErr.Message)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "plateNumber", apiErr.Errors[0].Field)

	v, err := c.CreateVehicle(ctx, VehicleInput{PlateNumber: "B 1 CLI", Model: "Avanza", Brand: "Toyota", Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", v.Status)

	lat, lng := -6.2, 106.8
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec, err := c.RecordStatus(ctx, v.ID, StatusInput{Status: "IDLE", Latitude: &lat, Longitude: &lng, Timestamp: &at})
	require.NoError(t, err)
	assert.Equal(t, "-6.2000, 106.8000", rec.Location)

	page, err := c.ListVehicles(ctx, ListVehiclesOptions{SortBy: "plateNumber", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Vehicles, 1)
	assert.Equal(t, "-6.2000, 106.8000", page.Vehicles[0].Location)
	assert.Equal(t, 10, page.Pagination.Limit)

	day, err := c.VehicleStatus(ctx, v.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, day.StatusRecords, 1)

	updated, err := c.UpdateVehicle(ctx, v.ID, VehicleInput{Status: "INACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", updated.Status)

	report, err := c.DownloadReport(ctx, ReportRequest{VehicleID: "all", StartDate: "2024-03-01", EndDate: "2024-03-01", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "vehicle-report-all-2024-03-01-to-2024-03-01.csv", report.Filename)
	assert.Contains(t, string(report.Data), "B 1 CLI")

	_, err = c.DownloadReport(ctx, ReportRequest{StartDate: "2024-03-02", EndDate: "2024-03-01"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Start date must be before end date", apiErr.Message)

	require.NoError(t, c.DeleteVehicle(ctx, v.ID))
	_, err = c.GetVehicle(ctx, v.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	// access token 失效時以 refresh token 換發
	refresh := c.Tokens().RefreshToken
	c.setTokens(Tokens{AccessToken: "garbage", RefreshToken: refresh})
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)
	assert.NotEqual(t, "garbage", c.Tokens().AccessToken)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, Tokens{}, c.Tokens())
}
