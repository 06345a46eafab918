// Package config loads the service configuration from the process
// environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures environment driven configuration values for the booking
// service.
type Config struct {
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"courtbooking"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load parses configuration values from the current process environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.HTTPPort <= 0 {
		return Config{}, fmt.Errorf("load configuration: HTTP_PORT must be positive, got %d", cfg.HTTPPort)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("load configuration: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

// DatabaseDSN composes the Postgres connection string from the individual
// DB_* values. The password is URL escaped so credentials with reserved
// characters survive.
func (c Config) DatabaseDSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	query := url.Values{}
	if c.DBSSLMode != "" {
		query.Set("sslmode", c.DBSSLMode)
	}
	u.RawQuery = query.Encode()
	return u.String()
}
