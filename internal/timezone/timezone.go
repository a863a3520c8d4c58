// Package timezone converts between UTC instants and named IANA timezones.
//
// The contract is deliberately one-directional: everything persisted by this
// service is a UTC instant, and conversion to a display zone happens only at
// the presentation boundary. FromUTC rejects inputs that are not tagged UTC so
// an already-converted value can never be converted twice.
package timezone

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimezone is returned when a zone name is not a known IANA zone.
var ErrInvalidTimezone = errors.New("invalid timezone")

// ErrNotUTC is returned by FromUTC when the input instant is not UTC-tagged.
var ErrNotUTC = errors.New("instant is not in UTC")

// DisplayFormat renders e.g. "05 Sep 2026, 07:30 AM".
const DisplayFormat = "02 Jan 2006, 03:04 PM"

// ToUTC interprets the wall-clock fields of local as a time in the named zone
// and returns the equivalent UTC instant. Any location already attached to
// local is ignored.
func ToUTC(local time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	y, m, d := local.Date()
	h, min, sec := local.Clock()
	return time.Date(y, m, d, h, min, sec, local.Nanosecond(), loc).UTC(), nil
}

// FromUTC converts a UTC instant to the named zone. The input must carry the
// UTC location; anything else indicates the value was already converted
// somewhere upstream.
func FromUTC(utc time.Time, zone string) (time.Time, error) {
	if utc.Location() != time.UTC {
		return time.Time{}, fmt.Errorf("%w: location %q", ErrNotUTC, utc.Location())
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	return utc.In(loc), nil
}

// Format renders an instant with the fixed display layout.
func Format(t time.Time) string {
	return t.Format(DisplayFormat)
}

// FormatIn converts a UTC instant to the named zone and formats it for display.
func FormatIn(utc time.Time, zone string) (string, error) {
	local, err := FromUTC(utc, zone)
	if err != nil {
		return "", err
	}
	return Format(local), nil
}
