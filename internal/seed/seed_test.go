package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiofit/class-booking/internal/bookinglog"
	"github.com/studiofit/class-booking/internal/logger"
)

type fakeClassStore struct {
	existing map[string]bool
	created  []string
	cleared  bool
}

func (f *fakeClassStore) CreateIfAbsent(_ context.Context, name, _ string, startUTC time.Time, _ int) (bool, error) {
	if f.existing[name] {
		return false, nil
	}
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[name] = true
	f.created = append(f.created, name)
	return true, nil
}

func (f *fakeClassStore) DeleteAll(context.Context) error {
	f.existing = map[string]bool{}
	f.cleared = true
	return nil
}

type fakeBookingStore struct {
	cleared bool
}

func (f *fakeBookingStore) DeleteAll(context.Context) error {
	f.cleared = true
	return nil
}

func TestRunSeedsThreeClassesOnce(t *testing.T) {
	classes := &fakeClassStore{}
	bookings := &fakeBookingStore{}
	log := bookinglog.New(filepath.Join(t.TempDir(), "bookings.json"))

	require.NoError(t, Run(context.Background(), classes, bookings, log, false, logger.New("error", nil)))
	assert.Equal(t, []string{"Yoga", "Zumba", "HIIT"}, classes.created)
	assert.False(t, classes.cleared)
	assert.False(t, bookings.cleared)

	// A second run finds every class present and inserts nothing.
	require.NoError(t, Run(context.Background(), classes, bookings, log, false, logger.New("error", nil)))
	assert.Len(t, classes.created, 3)
}

func TestRunForceClearsEverything(t *testing.T) {
	classes := &fakeClassStore{existing: map[string]bool{"Yoga": true}}
	bookings := &fakeBookingStore{}
	log := bookinglog.New(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, log.Append(bookinglog.Entry{ClassID: 1, Name: "A", Email: "a@b.com", BookedAt: time.Now().UTC()}))

	require.NoError(t, Run(context.Background(), classes, bookings, log, true, logger.New("error", nil)))

	assert.True(t, classes.cleared)
	assert.True(t, bookings.cleared)
	assert.Equal(t, []string{"Yoga", "Zumba", "HIIT"}, classes.created)

	entries, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
