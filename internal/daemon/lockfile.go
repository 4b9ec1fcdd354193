package daemon

import (
	"errors"
	"fmt"
	"os"
)

var ErrLockHeld = errors.New("daemon already running (lock held)")

// LockFile guards single-instance startup with an exclusive advisory lock.
type LockFile struct {
	path string
	file *os.File
}

func NewLockFile(path string) *LockFile {
	return &LockFile{path: path}
}

func (l *LockFile) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := l.platformLock(f); err != nil {
		f.Close()
		return err
	}

	l.file = f
	return nil
}

func (l *LockFile) Release() error {
	if l.file == nil {
		return nil
	}

	l.platformUnlock(l.file)

	err := l.file.Close()
	l.file = nil

	os.Remove(l.path)

	return err
}

// Abandon drops our handle without removing the file. Used when handing
// the lock over to a daemon we just spawned.
func (l *LockFile) Abandon() error {
	if l.file == nil {
		return nil
	}

	l.platformUnlock(l.file)

	err := l.file.Close()
	l.file = nil

	return err
}

func (l *LockFile) IsLocked() bool {
	return l.file != nil
}
