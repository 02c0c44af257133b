package store

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the database lock.
var ErrLocked = errors.New("database is in use by another lumen process")

// Lock is an advisory lock next to the database file. Only the interactive
// app takes it; read-only commands do not.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the lock for the database at dbPath without blocking.
func AcquireLock(dbPath string) (*Lock, error) {
	if err := ensureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	fl := flock.New(dbPath + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.fl.Path() }

// Release unlocks.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
