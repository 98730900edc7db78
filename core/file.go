package core

import (
	"fmt"
	"os"

	"github.com/0xRadioAc7iv/go-depot/internal/lock"
	"github.com/0xRadioAc7iv/go-depot/stream"
)

// FileDepot is a Depot backed by a file on disk and guarded by a lock file,
// so only one process writes it at a time.
type FileDepot struct {
	*Depot

	file     *os.File
	lockFile *os.File
}

// OpenFile opens the depot at path, creating it when the file is missing or
// empty.
func OpenFile(path string, opts ...Option) (*FileDepot, error) {
	lf, err := lock.LockFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		lock.UnlockFile(lf)
		return nil, fmt.Errorf("opening depot file: %w", err)
	}

	d, err := New(stream.FromFile(f), opts...)
	if err != nil {
		f.Close()
		lock.UnlockFile(lf)
		return nil, err
	}

	return &FileDepot{Depot: d, file: f, lockFile: lf}, nil
}

// Path is the data file path, not the lock file.
func (fd *FileDepot) Path() string {
	return fd.file.Name()
}

// Close syncs and closes the file, then releases the lock.
func (fd *FileDepot) Close() error {
	defer lock.UnlockFile(fd.lockFile)

	if err := fd.file.Sync(); err != nil {
		fd.file.Close()
		return err
	}
	return fd.file.Close()
}
