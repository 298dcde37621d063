//go:build unix

package instance

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
)

func TestAcquire_Exclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir, "watcher")
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer first.Release()

	// flock locks belong to the open file description, so a second open
	// in the same process conflicts just like another process would.
	if _, err := Acquire(dir, "watcher"); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Acquire() error = %v, want ErrAlreadyRunning", err)
	}

	data, err := os.ReadFile(first.Path())
	if err != nil {
		t.Fatalf("failed to read lock file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("lock file contains %q, want our PID", got)
	}
}

func TestAcquire_AfterRelease(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir, "watcher")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := first.Release(); err != nil {
		t.Errorf("second Release() error = %v, want nil", err)
	}

	second, err := Acquire(dir, "watcher")
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	second.Release()
}

func TestAcquire_MissingDir(t *testing.T) {
	_, err := Acquire(t.TempDir()+"/does/not/exist", "watcher")
	if err == nil || errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Acquire() in missing dir error = %v, want an open failure", err)
	}
}
