// Package bookinglog maintains a flat JSON mirror of confirmed bookings.
//
// The log is not authoritative: the relational store is the single source of
// truth and all user-facing reads derive from it. The log is written after the
// relational insert commits, so under a crash it can only ever be a strict
// subset of the real bookings. Writes rewrite the whole file and are
// serialized by a mutex.
package bookinglog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one denormalized booking record in the log.
type Entry struct {
	ClassID  int64     `json:"class_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	BookedAt time.Time `json:"booked_at"`
}

// Log is a mutex-serialized flat-file booking mirror.
type Log struct {
	mu   sync.Mutex
	path string
}

// New returns a Log backed by the file at path. The file is created lazily on
// the first write.
func New(path string) *Log {
	return &Log{path: path}
}

// Append adds one entry and rewrites the file wholesale.
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}
	return l.store(append(entries, e))
}

// All returns every entry in append order. A missing file reads as empty.
func (l *Log) All() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// ByEmail returns entries whose email matches case-insensitively.
func (l *Log) ByEmail(email string) ([]Entry, error) {
	all, err := l.All()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if strings.EqualFold(e.Email, email) {
			out = append(out, e)
		}
	}
	return out, nil
}

// CountByEmail returns the number of entries for an email, case-insensitive.
func (l *Log) CountByEmail(email string) (int, error) {
	matched, err := l.ByEmail(email)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Reset truncates the log to an empty collection.
func (l *Log) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store([]Entry{})
}

func (l *Log) load() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read booking log: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode booking log: %w", err)
	}
	return entries, nil
}

// store writes the full collection to a temp file and renames it into place,
// so readers never observe a half-written log.
func (l *Log) store(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode booking log: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".bookinglog-*")
	if err != nil {
		return fmt.Errorf("create temp booking log: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write booking log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close booking log: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace booking log: %w", err)
	}
	return nil
}
