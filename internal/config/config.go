// Package config loads runtime configuration from the environment.
//
// All tunables live in one struct handed explicitly to the components that
// need them at construction time; nothing reads the environment after Load
// returns.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting for the booking service.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"classbooking"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// BookingLogPath is the flat-file mirror of confirmed bookings.
	BookingLogPath string `envconfig:"BOOKING_LOG_PATH" default:"bookings.json"`

	// DefaultTimezone is used for display when a request names no zone.
	DefaultTimezone string `envconfig:"DEFAULT_TIMEZONE" default:"Asia/Kolkata"`

	// MaxBookingsPerEmail caps how many bookings a single email may hold.
	MaxBookingsPerEmail int `envconfig:"MAX_BOOKINGS_PER_EMAIL" default:"2"`

	// SeedForce wipes classes, bookings, and the booking log before reseeding.
	SeedForce bool `envconfig:"SEED_FORCE" default:"false"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	// Absence of a .env file is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// DSN builds a libpq-compatible connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
