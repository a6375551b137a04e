package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the test while keeping t.Setenv's cleanup
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	unsetEnv(t, "PORT")
	unsetEnv(t, "DB_HOST")
	unsetEnv(t, "DB_NAME")
	unsetEnv(t, "DB_MAX_CONNS")
	unsetEnv(t, "SEASON_ID")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "pettycoon", cfg.DBName)
	assert.Equal(t, DefaultDBMaxConns, cfg.DBMaxConns)
	assert.Equal(t, ConfigPathDropTables, cfg.DropTablesPath)
	assert.Equal(t, DefaultSeasonID, cfg.SeasonID)
	assert.Equal(t, int64(DefaultPassiveRatePerHour), cfg.PassiveRatePerHour)
	assert.Equal(t, DefaultPassiveMaxHours, cfg.PassiveMaxHours)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("PORT", "9000")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MAX_IDLE_TIME", "1m")
	t.Setenv("SEASON_ID", "season-7")
	t.Setenv("PASSIVE_RATE_PER_HOUR", "20")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, time.Minute, cfg.DBMaxIdle)
	assert.Equal(t, "season-7", cfg.SeasonID)
	assert.Equal(t, int64(20), cfg.PassiveRatePerHour)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{
		DBUser:     "app",
		DBPassword: "pw",
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "pettycoon",
	}

	assert.Equal(t, "postgres://app:pw@db:5432/pettycoon?sslmode=disable", cfg.GetDBConnString())
}
