//go:build unix

package lock

import (
	"fmt"
	"os"
	"syscall"
)

// LockFile takes an exclusive, non-blocking flock(2) on "<path>.lock".
// The lock lasts as long as the returned handle stays open.
func LockFile(path string) (*os.File, error) {
	f, err := os.OpenFile(PathFor(path), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return f, nil
}

// UnlockFile releases a lock taken with LockFile.
func UnlockFile(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
}
