package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum env the loader demands. Optional
// blocks (opensky, monitor, observability) are left unset so their
// defaults are exercised.
func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("GLADESWATCH_PRIMARY.ENV", "test")

	t.Setenv("GLADESWATCH_SERVER.PORT", "8080")
	t.Setenv("GLADESWATCH_SERVER.READ_TIMEOUT", "10")
	t.Setenv("GLADESWATCH_SERVER.WRITE_TIMEOUT", "10")
	t.Setenv("GLADESWATCH_SERVER.IDLE_TIMEOUT", "60")
	t.Setenv("GLADESWATCH_SERVER.CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	t.Setenv("GLADESWATCH_DATABASE.HOST", "localhost")
	t.Setenv("GLADESWATCH_DATABASE.PORT", "5432")
	t.Setenv("GLADESWATCH_DATABASE.USER", "gladeswatch")
	t.Setenv("GLADESWATCH_DATABASE.PASSWORD", "secret")
	t.Setenv("GLADESWATCH_DATABASE.NAME", "gladeswatch")
	t.Setenv("GLADESWATCH_DATABASE.SSL_MODE", "disable")
	t.Setenv("GLADESWATCH_DATABASE.MAX_OPEN_CONNS", "10")
	t.Setenv("GLADESWATCH_DATABASE.MAX_IDLE_CONNS", "2")
	t.Setenv("GLADESWATCH_DATABASE.CONN_MAX_LIFETIME", "3600")
	t.Setenv("GLADESWATCH_DATABASE.CONN_MAX_IDLE_TIME", "600")

	t.Setenv("GLADESWATCH_REDIS.ADDRESS", "localhost:6379")
	t.Setenv("GLADESWATCH_AUTH.SECRET_KEY", "sk_test_xxx")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	// Monitor defaults to the Dade-Collier setup.
	assert.Equal(t, "TNT", cfg.Monitor.AirportCode)
	assert.InDelta(t, 25.8575, cfg.Monitor.Latitude, 0.0001)
	assert.InDelta(t, -80.8969, cfg.Monitor.Longitude, 0.0001)
	assert.Equal(t, 10.0, cfg.Monitor.RadiusKM)
	assert.Equal(t, 30*time.Minute, cfg.Monitor.PollInterval)
	assert.Equal(t, 100.0, cfg.Monitor.GroundAltitudeM)
	assert.Equal(t, 500.0, cfg.Monitor.LandingAltitudeM)

	// OpenSky endpoints default to the public network.
	assert.Equal(t, "https://opensky-network.org/api", cfg.OpenSky.BaseURL)
	assert.Equal(t, "trino.opensky-network.org", cfg.OpenSky.TrinoHost)
	assert.Equal(t, 443, cfg.OpenSky.TrinoPort)
	assert.Equal(t, "minio", cfg.OpenSky.TrinoCatalog)
	assert.Equal(t, "osky", cfg.OpenSky.TrinoSchema)

	// Observability naming is forced regardless of env.
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "gladeswatch", cfg.Observability.ServiceName)
	assert.Equal(t, "test", cfg.Observability.Environment)
}

func TestLoadOverridesMonitor(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("GLADESWATCH_MONITOR.AIRPORT_CODE", "X51")
	t.Setenv("GLADESWATCH_MONITOR.LATITUDE", "25.6506")
	t.Setenv("GLADESWATCH_MONITOR.LONGITUDE", "-80.4331")
	t.Setenv("GLADESWATCH_MONITOR.RADIUS_KM", "15")
	t.Setenv("GLADESWATCH_MONITOR.POLL_INTERVAL", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "X51", cfg.Monitor.AirportCode)
	assert.InDelta(t, 25.6506, cfg.Monitor.Latitude, 0.0001)
	assert.Equal(t, 15.0, cfg.Monitor.RadiusKM)
	assert.Equal(t, 10*time.Minute, cfg.Monitor.PollInterval)
}

func TestMonitorValidateThresholdOrder(t *testing.T) {
	c := MonitorConfig{GroundAltitudeM: 600, LandingAltitudeM: 500}
	assert.ErrorIs(t, c.Validate(), errThresholdOrder)

	c = MonitorConfig{GroundAltitudeM: 100, LandingAltitudeM: 500}
	assert.NoError(t, c.Validate())
}
