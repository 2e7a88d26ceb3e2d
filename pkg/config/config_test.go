package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadFromFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  address: ":8080"
  trustedproxies: ["10.0.0.0/8", "127.0.0.1"]
  ratelimit:
    requests: 5
    window: 1m
db:
  host: db.internal
  port: 6543
jwt:
  secret: a
  refreshsecret: b
  expiresin: 5m
app:
  timezone: UTC
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, 5, cfg.Server.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "postgres", cfg.DB.User)
	assert.Equal(t, 5*time.Minute, cfg.JWT.ExpiresIn)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshExpiresIn)
	assert.Equal(t, time.UTC, cfg.App.Location())
}

func TestLoadEnvOverride(t *testing.T) {
	dir := writeConfig(t, "jwt:\n  secret: a\n  refreshsecret: b\n")
	t.Setenv("FLEET_JWT_SECRET", "from-env")
	t.Setenv("FLEET_SERVER_ADDRESS", ":9999")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, ":9999", cfg.Server.Address)
}

func TestLoadRequiresSecrets(t *testing.T) {
	dir := writeConfig(t, "log:\n  level: debug\n")
	_, err := Load(dir)
	assert.ErrorContains(t, err, "jwt.secret")

	dir = writeConfig(t, "jwt:\n  secret: same\n  refreshsecret: same\n")
	_, err = Load(dir)
	assert.ErrorContains(t, err, "must differ")
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("FLEET_JWT_SECRET", "a")
	t.Setenv("FLEET_JWT_REFRESHSECRET", "b")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, 100, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, 15*time.Minute, cfg.JWT.ExpiresIn)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{TimeZone: "Not/AZone"}.Location())
}
