// Package filelock coordinates report writes between concurrent semtrim
// runs: an flock-based lock plus an atomic write, so a reader never sees a
// half-written report even while several runs race on the same output file.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock wraps an flock file lock guarding one target file.
type Lock struct {
	fl   *flock.Flock
	path string
}

// New creates a lock for the given target. The lock file is created next to
// the target with a ".lock" suffix.
func New(target string) *Lock {
	path := target + ".lock"
	return &Lock{fl: flock.New(path), path: path}
}

// Lock acquires the lock, blocking until it is available.
func (l *Lock) Lock() error {
	if err := l.fl.Lock(); err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	return nil
}

// TryLock attempts to acquire the lock without blocking. It reports whether
// the lock was acquired.
func (l *Lock) TryLock() (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("try lock %s: %w", l.path, err)
	}
	return ok, nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// WriteAtomic writes data to path via a temp file and rename, so readers see
// either the previous content or the full new content.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// WithLock runs fn while holding the lock for target.
func WithLock(target string, fn func() error) error {
	l := New(target)
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}
