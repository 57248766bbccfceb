// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Backend the screen talks to
	BackendURL     string        `env:"BACKEND_URL" envDefault:"https://creators-analytic-backend.onrender.com"`
	InitData       string        `env:"TWA_INIT_DATA"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// Screen timers
	SyncPollInterval time.Duration `env:"SYNC_POLL_INTERVAL" envDefault:"3s"`
	SyncWatchdog     time.Duration `env:"SYNC_WATCHDOG" envDefault:"120s"`
	BannerDuration   time.Duration `env:"BANNER_DURATION" envDefault:"3s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Dev backend
	DevPort     int    `env:"DEV_PORT" envDefault:"8090"`
	RedisURL    string `env:"REDIS_URL" envDefault:""`
	// DevSQLitePath persists the dev store in a file when Redis is not set.
	DevSQLitePath string `env:"DEV_SQLITE_PATH" envDefault:""`
	DevAdminIDs string `env:"DEV_ADMIN_IDS" envDefault:""`
	// DevBotToken enables init data signature checks.
	DevBotToken    string        `env:"DEV_BOT_TOKEN"`
	DevCORSOrigins []string      `env:"DEV_CORS_ORIGINS" envSeparator:"," envDefault:"https://web.telegram.org"`
	DevSyncStep    time.Duration `env:"DEV_SYNC_STEP" envDefault:"700ms"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetDevAdminIDs parses the comma-separated admin telegram ids.
// Entries that are not integers are skipped.
func (c *Config) GetDevAdminIDs() []int64 {
	if c.DevAdminIDs == "" {
		return nil
	}

	parts := strings.Split(c.DevAdminIDs, ",")
	result := make([]int64, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		result = append(result, id)
	}

	return result
}

// Validate checks value ranges that env parsing cannot express.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BackendURL, validation.Required, is.URL),
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.Required, validation.In("json", "text")),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SyncPollInterval, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.SyncWatchdog, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.BannerDuration, validation.Required),
		validation.Field(&c.DevPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DevSyncStep, validation.Required),
	)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
