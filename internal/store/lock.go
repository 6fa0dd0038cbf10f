// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the writer lock.
var ErrLocked = errors.New("another curriculum-engine writer holds the database lock")

// LockWriter takes the exclusive writer lock for this database, a
// "<db>.lock" file next to it. Batch writers hold it for the whole run.
// The returned func releases the lock.
func (s *Store) LockWriter() (func() error, error) {
	lock := flock.New(s.path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", lock.Path(), ErrLocked)
	}
	return lock.Unlock, nil
}
