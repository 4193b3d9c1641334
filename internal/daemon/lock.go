package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// InstanceLock guarantees a single running daemon per user
type InstanceLock struct {
	fl *flock.Flock
}

// DefaultLockPath returns $XDG_RUNTIME_DIR/gpaper/gpaper.lock
func DefaultLockPath() string {
	return filepath.Join(xdg.RuntimeDir, "gpaper", "gpaper.lock")
}

// AcquireLock attempts to take an exclusive lock on path without blocking.
// Returns the lock if successful, nil if another instance already holds it.
func AcquireLock(path string) (*InstanceLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock dir: %w", err)
	}

	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !acquired {
		return nil, nil // Lock already held by another instance
	}

	return &InstanceLock{fl: fl}, nil
}

// Release releases the lock
func (l *InstanceLock) Release() error {
	return l.fl.Unlock()
}

// Path returns the lock file path
func (l *InstanceLock) Path() string {
	return l.fl.Path()
}
