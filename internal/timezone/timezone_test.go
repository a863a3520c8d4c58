package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	zones := []string{"UTC", "Asia/Kolkata", "Europe/London", "America/New_York", "Australia/Sydney"}
	instants := []time.Time{
		time.Date(2026, 1, 15, 3, 30, 0, 0, time.UTC),
		time.Date(2026, 7, 4, 18, 45, 12, 0, time.UTC),
		time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	for _, zone := range zones {
		for _, x := range instants {
			local, err := FromUTC(x, zone)
			require.NoError(t, err, zone)

			back, err := ToUTC(local, zone)
			require.NoError(t, err, zone)

			assert.True(t, back.Equal(x), "round trip in %s: got %v want %v", zone, back, x)
		}
	}
}

func TestToUTCInvalidZone(t *testing.T) {
	_, err := ToUTC(time.Now(), "Not/AZone")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestToUTCInterpretsWallClock(t *testing.T) {
	// 09:00 wall-clock in Kolkata is 03:30 UTC (+05:30, no DST).
	local := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) // attached location is ignored
	got, err := ToUTC(local, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 3, 30, 0, 0, time.UTC), got)
}

func TestFromUTCInvalidZone(t *testing.T) {
	_, err := FromUTC(time.Now().UTC(), "Mars/OlympusMons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestFromUTCRejectsNonUTCInstant(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	_, err = FromUTC(time.Date(2026, 6, 1, 9, 0, 0, 0, loc), "Asia/Kolkata")
	assert.ErrorIs(t, err, ErrNotUTC)
}

func TestFormat(t *testing.T) {
	got := Format(time.Date(2026, 9, 5, 7, 30, 0, 0, time.UTC))
	assert.Equal(t, "05 Sep 2026, 07:30 AM", got)

	got = Format(time.Date(2026, 9, 5, 19, 5, 0, 0, time.UTC))
	assert.Equal(t, "05 Sep 2026, 07:05 PM", got)
}

func TestFormatIn(t *testing.T) {
	utc := time.Date(2026, 9, 5, 2, 0, 0, 0, time.UTC)

	got, err := FormatIn(utc, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "05 Sep 2026, 07:30 AM", got)

	_, err = FormatIn(utc, "Bad/Zone")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}
