package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/studiofit/class-booking/internal/model"
	"github.com/studiofit/class-booking/internal/repository"
	"github.com/studiofit/class-booking/internal/service"
	"github.com/studiofit/class-booking/internal/timezone"
)

// WebHandler renders the HTML front: a classes page with a booking form.
// It is thin glue over the same service the JSON API uses.
type WebHandler struct {
	svc       *service.BookingService
	defaultTZ string
	tmpl      *template.Template
}

// NewWebHandler parses the classes template from templatePath.
func NewWebHandler(svc *service.BookingService, defaultTZ, templatePath string) (*WebHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &WebHandler{svc: svc, defaultTZ: defaultTZ, tmpl: tmpl}, nil
}

type classesPage struct {
	Classes   []model.ClassView
	CurrentTZ string
	Message   string
	Status    string
	Now       string
}

// Home handles GET /?tz=Z&message=M&status=S
// Shows upcoming classes in the requested zone with a flash message from the
// booking form redirect. An unknown zone falls back to the default instead of
// failing the page.
func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	zone := q.Get("tz")
	if zone == "" {
		zone = h.defaultTZ
	}
	now := time.Now().UTC()
	if _, err := timezone.FromUTC(now, zone); err != nil {
		zone = h.defaultTZ
	}

	classes, err := h.svc.ListClasses(r.Context())
	if err != nil {
		http.Error(w, "failed to load classes", http.StatusInternalServerError)
		return
	}

	page := classesPage{
		CurrentTZ: zone,
		Message:   q.Get("message"),
		Status:    q.Get("status"),
	}
	page.Now, _ = timezone.FormatIn(now, zone)

	for _, c := range classes {
		// The page only advertises classes that can still be booked.
		if c.StartUTC.Before(now) {
			continue
		}
		start, err := timezone.FormatIn(c.StartUTC, zone)
		if err != nil {
			http.Error(w, "failed to render class times", http.StatusInternalServerError)
			return
		}
		available := c.Remaining()
		if available < 0 {
			available = 0
		}
		page.Classes = append(page.Classes, model.ClassView{
			ID:             c.ID,
			Name:           c.Name,
			Instructor:     c.Instructor,
			Start:          start,
			Capacity:       c.Capacity,
			AvailableSlots: available,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, page); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// BookForm handles POST /book-form
// Books via the shared service and redirects back to the classes page with a
// flash message, success or not.
func (h *WebHandler) BookForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "Invalid form submission", "error")
		return
	}
	classID, err := strconv.ParseInt(r.PostFormValue("class_id"), 10, 64)
	if err != nil {
		h.redirect(w, r, "Invalid class selection", "error")
		return
	}

	_, err = h.svc.Book(r.Context(), model.BookRequest{
		ClassID: classID,
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
	})
	if err != nil {
		h.redirect(w, r, rejectionMessage(err), "error")
		return
	}
	h.redirect(w, r, "Booking successful!", "success")
}

func (h *WebHandler) redirect(w http.ResponseWriter, r *http.Request, message, status string) {
	target := fmt.Sprintf("/?message=%s&status=%s", url.QueryEscape(message), url.QueryEscape(status))
	if zone := r.PostFormValue("tz"); zone != "" {
		target += "&tz=" + url.QueryEscape(zone)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case errors.Is(err, repository.ErrClassNotFound):
		return "Class not found"
	case errors.Is(err, repository.ErrClassFull):
		return "Class is fully booked"
	case errors.Is(err, repository.ErrClassInPast):
		return "Class has already started"
	case errors.Is(err, repository.ErrTooManyBookings):
		return "Booking limit reached for this email"
	default:
		return "Booking failed"
	}
}
