// Package model defines the core domain types for the class booking system.
package model

import "time"

// ClassSession represents a scheduled fitness class that users can book.
// StartUTC is always a UTC instant; conversion to a display timezone happens
// only at the presentation boundary.
type ClassSession struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Instructor  string    `json:"instructor"`
	StartUTC    time.Time `json:"start_utc"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
}

// Remaining returns the number of free slots.
func (c *ClassSession) Remaining() int {
	return c.Capacity - c.BookedCount
}

// IsFull returns true when no slots remain.
func (c *ClassSession) IsFull() bool {
	return c.BookedCount >= c.Capacity
}

// Booking represents a confirmed spot in a class. Reference is a UUID
// confirmation code shared with the user; the integer ID is the storage key.
type Booking struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	ClassID     int64     `json:"class_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	BookedAtUTC time.Time `json:"booked_at_utc"`
}

// BookingWithClass is a booking joined with the class it belongs to,
// as returned when listing a user's bookings.
type BookingWithClass struct {
	Booking
	ClassName     string    `json:"class_name"`
	ClassStartUTC time.Time `json:"class_start_utc"`
}

// BookRequest is the payload for booking a spot in a class.
type BookRequest struct {
	ClassID int64  `json:"class_id" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
}

// BookingConfirmation summarises a successful booking.
// AvailableSlots is the number of free slots left after this booking.
type BookingConfirmation struct {
	BookingID      int64  `json:"booking_id"`
	Reference      string `json:"reference"`
	Message        string `json:"message"`
	AvailableSlots int    `json:"available_slots"`
}

// ClassView is a class prepared for display: start time rendered in the
// caller's timezone.
type ClassView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Instructor     string `json:"instructor"`
	Start          string `json:"start"`
	Capacity       int    `json:"capacity"`
	AvailableSlots int    `json:"available_slots"`
}

// BookingView is a user's booking prepared for display.
type BookingView struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	ClassID         int64  `json:"class_id"`
	ClassName       string `json:"class_name"`
	ClassStartLocal string `json:"class_start_local"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	BookedAtUTC     string `json:"booked_at_utc"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
