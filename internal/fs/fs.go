package fs

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// FileSystem abstracts the file operations used by on-disk stores
type FileSystem interface {
	// ReadFile reads the entire named file
	ReadFile(name string) ([]byte, error)

	// WriteFileAtomic replaces the named file with data in a single step.
	// Readers observe either the old or the new content, never a mix.
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error

	// IsNotExist reports whether err indicates a missing file
	IsNotExist(err error) bool
}

// OSFileSystem is backed by the local disk
type OSFileSystem struct{}

// NewOSFileSystem creates a filesystem backed by the local disk
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile reads the entire named file
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFileAtomic writes to a temp file in the same directory, syncs it,
// and renames it over name. The resulting file has mode perm.
func (OSFileSystem) WriteFileAtomic(name string, data []byte, perm fs.FileMode) error {
	if err := atomic.WriteFile(name, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(name, perm)
}

// IsNotExist reports whether err indicates a missing file
func (OSFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
