// Package lock provides advisory file locks so that concurrent stackform
// runs do not write the same output file at once.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("output is locked by another stackform run")

// Lock is an exclusive lock guarding one target file.
type Lock struct {
	target string
	path   string
	file   *os.File
}

// New creates a lock for target. The lock file lives beside the target as
// .<name>.lock.
func New(target string) *Lock {
	dir, name := filepath.Split(target)
	return &Lock{
		target: target,
		path:   filepath.Join(dir, "."+name+".lock"),
	}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking.
// Returns ErrLocked if the lock is already held by another process.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		l.file = nil
		if err == syscall.EWOULDBLOCK {
			return fmt.Errorf("%s: %w", l.target, ErrLocked)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	// PID for debugging a stale lock
	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release unlocks and removes the lock file. Releasing a lock that is not
// held is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("release lock: %w", err)
	}

	l.file.Close()
	os.Remove(l.path)
	l.file = nil

	return nil
}

// WithLock runs fn while holding the lock for target.
func WithLock(target string, fn func() error) error {
	lock := New(target)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	return fn()
}
