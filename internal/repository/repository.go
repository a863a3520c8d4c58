// Package repository implements all database queries for the class booking
// system. It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiofit/class-booking/internal/model"
)

// ErrClassNotFound is returned when a class id does not resolve.
var ErrClassNotFound = errors.New("class not found")

// ErrClassFull is returned when a class has no remaining capacity.
var ErrClassFull = errors.New("class is fully booked")

// ErrClassInPast is returned when a class has already started.
var ErrClassInPast = errors.New("class has already started")

// ErrTooManyBookings is returned when an email holds its maximum number of
// bookings.
var ErrTooManyBookings = errors.New("too many bookings for this email")

// ClassRepo handles persistence for class sessions.
type ClassRepo struct {
	db *pgxpool.Pool
}

// NewClassRepo constructs a ClassRepo.
func NewClassRepo(db *pgxpool.Pool) *ClassRepo {
	return &ClassRepo{db: db}
}

// Create inserts a new class and returns its generated id.
func (r *ClassRepo) Create(ctx context.Context, name, instructor string, startUTC time.Time, capacity int) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO classes (name, instructor, start_utc, capacity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, instructor, startUTC.UTC(), capacity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert class: %w", err)
	}
	return id, nil
}

// CreateIfAbsent inserts a class unless one with the same name already exists.
// It reports whether a row was inserted. Used by the seed collaborator, which
// must be idempotent across restarts.
func (r *ClassRepo) CreateIfAbsent(ctx context.Context, name, instructor string, startUTC time.Time, capacity int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO classes (name, instructor, start_utc, capacity)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO NOTHING`,
		name, instructor, startUTC.UTC(), capacity,
	)
	if err != nil {
		return false, fmt.Errorf("insert class if absent: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns all classes ordered by start time ascending, each with its
// current booking count.
func (r *ClassRepo) List(ctx context.Context) ([]model.ClassSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, c.instructor, c.start_utc, c.capacity, COUNT(b.id)
		 FROM classes c
		 LEFT JOIN bookings b ON b.class_id = c.id
		 GROUP BY c.id
		 ORDER BY c.start_utc ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []model.ClassSession
	for rows.Next() {
		var c model.ClassSession
		if err := rows.Scan(&c.ID, &c.Name, &c.Instructor, &c.StartUTC, &c.Capacity, &c.BookedCount); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		c.StartUTC = c.StartUTC.UTC()
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetByID returns a single class or ErrClassNotFound.
func (r *ClassRepo) GetByID(ctx context.Context, id int64) (*model.ClassSession, error) {
	var c model.ClassSession
	err := r.db.QueryRow(ctx,
		`SELECT c.id, c.name, c.instructor, c.start_utc, c.capacity, COUNT(b.id)
		 FROM classes c
		 LEFT JOIN bookings b ON b.class_id = c.id
		 WHERE c.id = $1
		 GROUP BY c.id`,
		id,
	).Scan(&c.ID, &c.Name, &c.Instructor, &c.StartUTC, &c.Capacity, &c.BookedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	c.StartUTC = c.StartUTC.UTC()
	return &c, nil
}

// CountBookings returns the number of bookings held against a class.
func (r *ClassRepo) CountBookings(ctx context.Context, classID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1`,
		classID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// DeleteAll removes every class. Only the forced reseed path uses this.
func (r *ClassRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM classes`); err != nil {
		return fmt.Errorf("delete classes: %w", err)
	}
	return nil
}

// BookingRepo handles persistence for bookings, including the atomic
// admission check.
type BookingRepo struct {
	db            *pgxpool.Pool
	perEmailLimit int
}

// NewBookingRepo constructs a BookingRepo. perEmailLimit caps how many
// bookings a single email may hold across all classes.
func NewBookingRepo(db *pgxpool.Pool, perEmailLimit int) *BookingRepo {
	return &BookingRepo{db: db, perEmailLimit: perEmailLimit}
}

// Book admits one booking inside a single transaction.
//
// Two concurrent attempts against the last slot of a class must not both
// succeed. A naive read-then-insert lets both transactions observe the same
// free slot, so the class row is locked with SELECT ... FOR UPDATE before the
// count check: the second transaction blocks on the lock until the first
// commits, then re-reads and sees the class full.
//
// The per-email limit runs inside the same transaction so that two
// simultaneous requests from one email cannot both slip under the cap.
//
// Check order mirrors the admission state machine: per-email limit, class
// existence, temporal validity, capacity. On success it returns the booking
// and the number of slots remaining after the insert.
func (r *BookingRepo) Book(ctx context.Context, classID int64, name, email string, bookedAt, now time.Time) (*model.Booking, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Step 1: per-email limit, case-insensitive.
	var held int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE LOWER(email) = LOWER($1)`,
		email,
	).Scan(&held)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings by email: %w", err)
	}
	if held >= r.perEmailLimit {
		err = ErrTooManyBookings
		return nil, 0, err
	}

	// Step 2: lock the class row. Concurrent admissions serialize here.
	var capacity int
	var startUTC time.Time
	err = tx.QueryRow(ctx,
		`SELECT capacity, start_utc FROM classes WHERE id = $1 FOR UPDATE`,
		classID,
	).Scan(&capacity, &startUTC)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrClassNotFound
		} else {
			err = fmt.Errorf("lock class row: %w", err)
		}
		return nil, 0, err
	}

	// Step 3: no booking into classes that already started.
	if startUTC.Before(now) {
		err = ErrClassInPast
		return nil, 0, err
	}

	// Step 4: capacity guard.
	var booked int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1`,
		classID,
	).Scan(&booked)
	if err != nil {
		return nil, 0, fmt.Errorf("count class bookings: %w", err)
	}
	if booked >= capacity {
		err = ErrClassFull
		return nil, 0, err
	}

	// Step 5: insert the booking.
	b := &model.Booking{
		Reference:   uuid.New().String(),
		ClassID:     classID,
		Name:        name,
		Email:       email,
		BookedAtUTC: bookedAt.UTC(),
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (reference, class_id, name, email, booked_at_utc)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		b.Reference, b.ClassID, b.Name, b.Email, b.BookedAtUTC,
	).Scan(&b.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}

	return b, capacity - booked - 1, nil
}

// ListByEmail returns a user's bookings joined with class name and start,
// newest booking first. Email matching is case-insensitive.
func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]model.BookingWithClass, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.reference, b.class_id, b.name, b.email, b.booked_at_utc,
		        c.name, c.start_utc
		 FROM bookings b
		 JOIN classes c ON c.id = b.class_id
		 WHERE LOWER(b.email) = LOWER($1)
		 ORDER BY b.booked_at_utc DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings by email: %w", err)
	}
	defer rows.Close()

	var bookings []model.BookingWithClass
	for rows.Next() {
		var b model.BookingWithClass
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.ClassID, &b.Name, &b.Email, &b.BookedAtUTC,
			&b.ClassName, &b.ClassStartUTC,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.BookedAtUTC = b.BookedAtUTC.UTC()
		b.ClassStartUTC = b.ClassStartUTC.UTC()
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// DeleteAll removes every booking. Only the forced reseed path uses this.
func (r *BookingRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	return nil
}
