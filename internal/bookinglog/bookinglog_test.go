package bookinglog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "bookings.json"))
}

func TestMissingFileReadsEmpty(t *testing.T) {
	l := newTestLog(t)

	entries, err := l.All()
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err := l.CountByEmail("a@b.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppendAndAll(t *testing.T) {
	l := newTestLog(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, l.Append(Entry{ClassID: 1, Name: "Asha", Email: "asha@example.com", BookedAt: now}))
	require.NoError(t, l.Append(Entry{ClassID: 2, Name: "Ben", Email: "ben@example.com", BookedAt: now}))

	entries, err := l.All()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ClassID)
	assert.Equal(t, "ben@example.com", entries[1].Email)
	assert.True(t, entries[0].BookedAt.Equal(now))
}

func TestFileIsValidJSONCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	l := New(path)
	require.NoError(t, l.Append(Entry{ClassID: 7, Name: "Ana", Email: "ana@example.com", BookedAt: time.Now().UTC()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 1)
}

func TestByEmailIsCaseInsensitive(t *testing.T) {
	l := newTestLog(t)
	require.NoError(t, l.Append(Entry{ClassID: 1, Name: "X", Email: "X@Y.com", BookedAt: time.Now().UTC()}))
	require.NoError(t, l.Append(Entry{ClassID: 2, Name: "Z", Email: "other@y.com", BookedAt: time.Now().UTC()}))

	matched, err := l.ByEmail("x@y.com")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "X@Y.com", matched[0].Email)

	n, err := l.CountByEmail("X@Y.COM")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReset(t *testing.T) {
	l := newTestLog(t)
	require.NoError(t, l.Append(Entry{ClassID: 1, Name: "A", Email: "a@b.com", BookedAt: time.Now().UTC()}))
	require.NoError(t, l.Reset())

	entries, err := l.All()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	l := newTestLog(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := l.Append(Entry{
				ClassID:  int64(i),
				Name:     fmt.Sprintf("user-%d", i),
				Email:    fmt.Sprintf("user-%d@example.com", i),
				BookedAt: time.Now().UTC(),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := l.All()
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}
