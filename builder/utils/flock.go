package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrLocked is returned when another run holds the content directory.
var ErrLocked = errors.New("another run is in progress")

// RunLock guards a content directory against concurrent pipeline runs.
// The index merge is a read-modify-write and is not safe with two writers.
type RunLock struct {
	file *os.File
	path string
}

func AcquireRunLock(dir string) (*RunLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}

	lockPath := filepath.Join(dir, ".autopost.lock")
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	// Non-blocking: a second run fails fast instead of queueing
	if err := tryLock(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w (lock file: %s)", ErrLocked, lockPath)
	}

	stamp := fmt.Sprintf("%d\n%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	_ = file.Truncate(0)
	_, _ = file.WriteAt([]byte(stamp), 0)

	return &RunLock{file: file, path: lockPath}, nil
}

func (l *RunLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = unlock(l.file)
	err := l.file.Close()
	l.file = nil
	_ = os.Remove(l.path)
	return err
}
