package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the destination while a batch runs.
const LockFileName = ".mvc.lock"

// ErrDestinationBusy is returned when another batch holds the destination lock.
var ErrDestinationBusy = errors.New("another mvc batch is writing to this destination")

// Lock is an exclusive advisory lock on a destination directory.
type Lock struct {
	lock *flock.Flock
	path string
}

// LockDestination acquires the destination lock without blocking.
func LockDestination(dest string) (*Lock, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}
	path := filepath.Join(dest, LockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDestinationBusy, dest)
	}
	return &Lock{lock: fl, path: path}, nil
}

// Release drops the lock and removes the lock file.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	_ = os.Remove(l.path)
	return nil
}
