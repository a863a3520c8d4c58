// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiofit/class-booking/internal/model"
	"github.com/studiofit/class-booking/internal/repository"
	"github.com/studiofit/class-booking/internal/service"
	"github.com/studiofit/class-booking/internal/timezone"
)

// BookingHandler holds the JSON API handlers for the booking service.
type BookingHandler struct {
	svc       *service.BookingService
	defaultTZ string
}

// NewBookingHandler constructs a BookingHandler. defaultTZ is used when a
// request names no display timezone.
func NewBookingHandler(svc *service.BookingService, defaultTZ string) *BookingHandler {
	return &BookingHandler{svc: svc, defaultTZ: defaultTZ}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeRejection maps service-level rejections to HTTP statuses. Handlers
// never re-derive business rules; they only translate.
func writeRejection(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, timezone.ErrInvalidTimezone):
		writeError(w, http.StatusBadRequest, "invalid timezone")
	case errors.Is(err, repository.ErrClassNotFound):
		writeError(w, http.StatusNotFound, "class not found")
	case errors.Is(err, repository.ErrClassFull):
		writeError(w, http.StatusConflict, "class is fully booked")
	case errors.Is(err, repository.ErrClassInPast):
		writeError(w, http.StatusConflict, "class has already started")
	case errors.Is(err, repository.ErrTooManyBookings):
		writeError(w, http.StatusConflict, "booking limit reached for this email")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *BookingHandler) zoneParam(r *http.Request, names ...string) string {
	for _, n := range names {
		if v := r.URL.Query().Get(n); v != "" {
			return v
		}
	}
	return h.defaultTZ
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListClasses handles GET /classes?timezone=Z
// Returns all classes with start times rendered in the requested zone.
func (h *BookingHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	zone := h.zoneParam(r, "timezone")

	classes, err := h.svc.ListClasses(r.Context())
	if err != nil {
		writeRejection(w, err)
		return
	}

	views := make([]model.ClassView, 0, len(classes))
	for _, c := range classes {
		start, err := timezone.FormatIn(c.StartUTC, zone)
		if err != nil {
			writeRejection(w, err)
			return
		}
		views = append(views, model.ClassView{
			ID:             c.ID,
			Name:           c.Name,
			Instructor:     c.Instructor,
			Start:          start,
			Capacity:       c.Capacity,
			AvailableSlots: c.Remaining(),
		})
	}

	writeJSON(w, http.StatusOK, views)
}

// GetClass handles GET /classes/{id}?timezone=Z
// Returns a single class with its start rendered in the requested zone.
func (h *BookingHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "class id must be an integer")
		return
	}
	zone := h.zoneParam(r, "timezone")

	c, err := h.svc.GetClass(r.Context(), id)
	if err != nil {
		writeRejection(w, err)
		return
	}
	start, err := timezone.FormatIn(c.StartUTC, zone)
	if err != nil {
		writeRejection(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ClassView{
		ID:             c.ID,
		Name:           c.Name,
		Instructor:     c.Instructor,
		Start:          start,
		Capacity:       c.Capacity,
		AvailableSlots: c.Remaining(),
	})
}

// Book handles POST /book
// Admits a booking request and returns the confirmation.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	conf, err := h.svc.Book(r.Context(), req)
	if err != nil {
		writeRejection(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conf)
}

// GetBookings handles GET /bookings?email=E&tz=Z
// Returns the user's bookings, newest first, with class start times rendered
// in the requested zone.
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	zone := h.zoneParam(r, "tz")

	// Validate the zone before touching storage so a bad zone fails fast.
	if _, err := timezone.FromUTC(time.Now().UTC(), zone); err != nil {
		writeRejection(w, err)
		return
	}

	bookings, err := h.svc.GetBookings(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeRejection(w, err)
		return
	}

	views := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		startLocal, err := timezone.FormatIn(b.ClassStartUTC, zone)
		if err != nil {
			writeRejection(w, err)
			return
		}
		views = append(views, model.BookingView{
			ID:              b.ID,
			Reference:       b.Reference,
			ClassID:         b.ClassID,
			ClassName:       b.ClassName,
			ClassStartLocal: startLocal,
			Name:            b.Name,
			Email:           b.Email,
			BookedAtUTC:     b.BookedAtUTC.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, views)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
