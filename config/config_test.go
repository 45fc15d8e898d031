package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.HTTP.Port)
	assert.Equal(t, "X-Forwarded-Email", cfg.Auth.Header)
	assert.Equal(t, 6, cfg.Maintenance.StaleMonths)
	assert.Equal(t, "equipment:device-status", cfg.Events.StatusChannel)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.Contains(t, cfg.DSN(), "dbname=equipment")
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	content := `
database:
  url: "postgres://u:p@db:5432/equipment?sslmode=disable"
http:
  port: "8080"
  web_origin: "https://equipment.hospital.test"
maintenance:
  stale_months: 3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL_SECONDS", "600")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/equipment?sslmode=disable", cfg.DSN())
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 3, cfg.Maintenance.StaleMonths)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL())
	assert.True(t, cfg.SecureCookies())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("MAINTENANCE_STALE_MONTHS", "-1")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.port")
	assert.Contains(t, err.Error(), "maintenance.stale_months")
}
