// Package seed populates the store with example classes on first run.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studiofit/class-booking/internal/bookinglog"
)

// ClassStore is the class persistence surface seeding needs.
type ClassStore interface {
	CreateIfAbsent(ctx context.Context, name, instructor string, startUTC time.Time, capacity int) (bool, error)
	DeleteAll(ctx context.Context) error
}

// BookingStore is the booking persistence surface seeding needs.
type BookingStore interface {
	DeleteAll(ctx context.Context) error
}

type class struct {
	name       string
	instructor string
	startIn    time.Duration
	capacity   int
}

// Three example classes at upcoming UTC times: tomorrow morning, tomorrow
// evening, and the morning after.
var defaults = []class{
	{name: "Yoga", instructor: "Priya", startIn: 24*time.Hour + 9*time.Hour, capacity: 10},
	{name: "Zumba", instructor: "Carlos", startIn: 24*time.Hour + 17*time.Hour, capacity: 15},
	{name: "HIIT", instructor: "Aisha", startIn: 48*time.Hour + 7*time.Hour, capacity: 12},
}

// Run seeds the example classes, inserting each only if no class with that
// name exists. With force set it first deletes all bookings and classes and
// clears the booking log, then reseeds from scratch.
func Run(ctx context.Context, classes ClassStore, bookings BookingStore, log *bookinglog.Log, force bool, logger *slog.Logger) error {
	if force {
		if err := bookings.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
		if err := classes.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear classes: %w", err)
		}
		if err := log.Reset(); err != nil {
			return fmt.Errorf("clear booking log: %w", err)
		}
		logger.Info("forced reseed: cleared classes, bookings, and booking log")
	}

	now := time.Now().UTC()
	for _, c := range defaults {
		inserted, err := classes.CreateIfAbsent(ctx, c.name, c.instructor, now.Add(c.startIn), c.capacity)
		if err != nil {
			return fmt.Errorf("seed class %q: %w", c.name, err)
		}
		if inserted {
			logger.Info("seeded class", "name", c.name, "instructor", c.instructor, "capacity", c.capacity)
		}
	}
	return nil
}
