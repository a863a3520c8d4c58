// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the storage layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/studiofit/class-booking/internal/bookinglog"
	"github.com/studiofit/class-booking/internal/model"
	"github.com/studiofit/class-booking/internal/repository"
)

// ErrValidation marks malformed input (name, email, class id). Wrapped
// variants carry the offending field in their message.
var ErrValidation = errors.New("validation failed")

// ClassStore is the class persistence surface the service needs.
type ClassStore interface {
	List(ctx context.Context) ([]model.ClassSession, error)
	GetByID(ctx context.Context, id int64) (*model.ClassSession, error)
}

// BookingStore is the booking persistence surface the service needs. Book
// performs the whole admission check atomically and returns the booking plus
// the slots remaining after it.
type BookingStore interface {
	Book(ctx context.Context, classID int64, name, email string, bookedAt, now time.Time) (*model.Booking, int, error)
	ListByEmail(ctx context.Context, email string) ([]model.BookingWithClass, error)
}

// BookingService orchestrates class listing and booking admission. It is the
// single translation point from store-level errors to user-facing rejections.
type BookingService struct {
	classes  ClassStore
	bookings BookingStore
	log      *bookinglog.Log
	validate *validator.Validate
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(classes ClassStore, bookings BookingStore, log *bookinglog.Log, logger *slog.Logger) *BookingService {
	return &BookingService{
		classes:  classes,
		bookings: bookings,
		log:      log,
		validate: validator.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListClasses returns all classes with UTC start times, ordered by start.
func (s *BookingService) ListClasses(ctx context.Context) ([]model.ClassSession, error) {
	return s.classes.List(ctx)
}

// GetClass returns a single class by id.
func (s *BookingService) GetClass(ctx context.Context, id int64) (*model.ClassSession, error) {
	return s.classes.GetByID(ctx, id)
}

// Book admits one booking request. Input is validated and the email
// normalized here; the per-user limit, existence, temporal, and capacity
// checks all run inside the store's admission transaction. On success the
// booking is mirrored to the flat booking log — strictly after the relational
// insert, and a failed mirror write never rolls the booking back, so the log
// is at worst a subset of the store.
func (s *BookingService) Book(ctx context.Context, req model.BookRequest) (*model.BookingConfirmation, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrValidation, describeFieldError(fieldErrs[0]))
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	booking, remaining, err := s.bookings.Book(ctx, req.ClassID, req.Name, req.Email, now, now)
	if err != nil {
		// Surface domain rejections directly so handlers can set the right
		// HTTP status.
		if errors.Is(err, repository.ErrClassNotFound) ||
			errors.Is(err, repository.ErrClassFull) ||
			errors.Is(err, repository.ErrClassInPast) ||
			errors.Is(err, repository.ErrTooManyBookings) {
			return nil, err
		}
		return nil, fmt.Errorf("book class: %w", err)
	}

	if err := s.log.Append(bookinglog.Entry{
		ClassID:  booking.ClassID,
		Name:     booking.Name,
		Email:    booking.Email,
		BookedAt: booking.BookedAtUTC,
	}); err != nil {
		s.logger.Warn("booking log append failed; relational record kept",
			"booking_id", booking.ID, "error", err)
	}

	return &model.BookingConfirmation{
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		Message:        "Booking successful!",
		AvailableSlots: remaining,
	}, nil
}

// GetBookings returns a user's bookings, newest first. Matching is
// case-insensitive; reads come from the relational store, not the log.
func (s *BookingService) GetBookings(ctx context.Context, email string) ([]model.BookingWithClass, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	return s.bookings.ListByEmail(ctx, email)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "ClassID":
		return "class_id must be a positive integer"
	case "Name":
		return "name must be at least 2 characters"
	case "Email":
		return "email must be a valid address"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
