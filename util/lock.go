package util

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the root while a pass runs. The walker never
// relocates it.
const LockFileName = ".docsort.lock"

// ErrRunInProgress is returned when another pass holds the root's lock.
var ErrRunInProgress = errors.New("another organize pass is already running on this directory")

// RunLock is an exclusive advisory lock on a root directory.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock takes the lock for root without blocking.
func AcquireRunLock(root string) (*RunLock, error) {
	l := flock.New(filepath.Join(root, LockFileName))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", l.Path(), err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return &RunLock{lock: l}, nil
}

// Release unlocks and leaves the lock file in place; removing it would race
// with a second process that already opened it.
func (r *RunLock) Release() error {
	return r.lock.Unlock()
}
