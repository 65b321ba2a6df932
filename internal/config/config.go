// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so the application fails
// fast on bad or missing config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into structured Go config (structs).
//   - Validate required values.
//   - Provide sane defaults for optional config blocks (observability,
//     OpenSky endpoints, monitor thresholds).
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env
	// before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Env vars use the GLADESWATCH_ prefix and "." as the nesting
// delimiter, so GLADESWATCH_DATABASE.HOST maps to Config.Database.Host.

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional; defaults are
// injected at load time when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	OpenSky       OpenSkyConfig        `koanf:"opensky"`
	Monitor       MonitorConfig        `koanf:"monitor"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs/traces and switch behavior by env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// Redis backs the Asynq job queues and the sighting dedupe keys.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication-related secrets (Clerk secret key).
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// OpenSkyConfig holds settings for the OpenSky Network data source.
//
// ClientID/ClientSecret are optional: without them the REST client
// falls back to anonymous access (lower rate limits). The Trino
// fields are only needed for historical backfill.
type OpenSkyConfig struct {
	BaseURL        string `koanf:"base_url"`
	TokenURL       string `koanf:"token_url"`
	ClientID       string `koanf:"client_id"`
	ClientSecret   string `koanf:"client_secret"`
	RequestTimeout int    `koanf:"request_timeout" validate:"min=1"`

	TrinoHost    string `koanf:"trino_host"`
	TrinoPort    int    `koanf:"trino_port"`
	TrinoUser    string `koanf:"trino_user"`
	TrinoCatalog string `koanf:"trino_catalog"`
	TrinoSchema  string `koanf:"trino_schema"`
}

// MonitorConfig describes the airport being watched and the polling
// behavior around it.
//
// Altitudes are barometric meters. The two thresholds split airborne
// traffic into VERY_LOW (below the ground threshold), LOW_ALTITUDE
// (below the landing threshold) and CRUISING.
type MonitorConfig struct {
	AirportName string  `koanf:"airport_name"`
	AirportCode string  `koanf:"airport_code"`
	Latitude    float64 `koanf:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `koanf:"longitude" validate:"min=-180,max=180"`
	RadiusKM    float64 `koanf:"radius_km" validate:"min=1"`

	PollInterval     time.Duration `koanf:"poll_interval" validate:"min=1m"`
	GroundAltitudeM  float64       `koanf:"ground_altitude_m" validate:"min=1"`
	LandingAltitudeM float64       `koanf:"landing_altitude_m" validate:"min=1"`

	AlertsEnabled   bool     `koanf:"alerts_enabled"`
	AlertRecipients []string `koanf:"alert_recipients"`
}

// IntegrationConfig stores third-party provider credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

var errThresholdOrder = errors.New("monitor ground_altitude_m must be below landing_altitude_m")

// Load reads configuration from environment variables, unmarshals it
// into Config, applies defaults, and validates the result.
func Load() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Only env vars with the GLADESWATCH_ prefix are read; the prefix
	// is stripped and keys lowercased before koanf maps them.
	err := k.Load(env.Provider("GLADESWATCH_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "GLADESWATCH_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	// Fill optional blocks before validation so "min=" rules run on
	// defaults rather than on zero values.
	mainConfig.OpenSky.applyDefaults()
	mainConfig.Monitor.applyDefaults()

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry sees
	// consistent naming regardless of what was configured.
	mainConfig.Observability.ServiceName = "gladeswatch"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	if err := mainConfig.Monitor.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid monitor config")
	}

	return mainConfig, nil
}

// applyDefaults fills unset OpenSky fields with the public endpoints.
func (c *OpenSkyConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://opensky-network.org/api"
	}
	if c.TokenURL == "" {
		c.TokenURL = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30
	}
	if c.TrinoHost == "" {
		c.TrinoHost = "trino.opensky-network.org"
	}
	if c.TrinoPort == 0 {
		c.TrinoPort = 443
	}
	if c.TrinoCatalog == "" {
		c.TrinoCatalog = "minio"
	}
	if c.TrinoSchema == "" {
		c.TrinoSchema = "osky"
	}
}

// applyDefaults fills unset Monitor fields with the Dade-Collier
// (TNT) defaults the service was built around.
func (c *MonitorConfig) applyDefaults() {
	if c.AirportName == "" {
		c.AirportName = "Dade-Collier Training and Transition Airport"
	}
	if c.AirportCode == "" {
		c.AirportCode = "TNT"
	}
	if c.Latitude == 0 {
		c.Latitude = 25.8575
	}
	if c.Longitude == 0 {
		c.Longitude = -80.8969
	}
	if c.RadiusKM == 0 {
		c.RadiusKM = 10
	}
	if c.PollInterval == 0 {
		c.PollInterval = 30 * time.Minute
	}
	if c.GroundAltitudeM == 0 {
		c.GroundAltitudeM = 100
	}
	if c.LandingAltitudeM == 0 {
		c.LandingAltitudeM = 500
	}
}

// Validate applies cross-field rules that struct tags cannot express.
func (c *MonitorConfig) Validate() error {
	if c.GroundAltitudeM >= c.LandingAltitudeM {
		return errThresholdOrder
	}
	return nil
}
