// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiofit/class-booking/internal/config"
)

// schema is applied on startup, one statement per Exec because pgx's extended
// protocol rejects multi-statement strings. The service deliberately carries
// no migration framework; CREATE IF NOT EXISTS keeps startup idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS classes (
	    id          BIGSERIAL PRIMARY KEY,
	    name        TEXT NOT NULL UNIQUE,
	    instructor  TEXT NOT NULL,
	    start_utc   TIMESTAMPTZ NOT NULL,
	    capacity    INTEGER NOT NULL CHECK (capacity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
	    id             BIGSERIAL PRIMARY KEY,
	    reference      UUID NOT NULL,
	    class_id       BIGINT NOT NULL REFERENCES classes(id),
	    name           TEXT NOT NULL,
	    email          TEXT NOT NULL,
	    booked_at_utc  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_class_id ON bookings (class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings (LOWER(email))`,
}

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				return pool, nil
			}
			pool.Close()
			err = pingErr
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
