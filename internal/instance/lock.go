// Package instance keeps a second watcher from starting for the same user.
package instance

import (
	"errors"
	"path/filepath"
)

// ErrAlreadyRunning is returned by Acquire when another process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is a held single-instance lock. Release it on shutdown.
type Lock struct {
	path    string
	release func() error
}

// Acquire takes the lock called name. On Unix it is an flock on
// <dir>/<name>.lock; on Windows a named mutex. dir must exist.
func Acquire(dir, name string) (*Lock, error) {
	return acquire(filepath.Join(dir, name+".lock"), name)
}

// Path returns the lock file path (informational on Windows).
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. Calling it more than once is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.release == nil {
		return nil
	}
	release := l.release
	l.release = nil
	return release()
}
