package fs

import (
	"errors"
	"io/fs"
	"sync"
)

var (
	// ErrNotExist is returned when a file does not exist
	ErrNotExist = errors.New("file does not exist")
)

// MemFileSystem is an in-memory filesystem for testing.
// Read and write failures can be injected per path to exercise I/O error handling.
type MemFileSystem struct {
	mu        sync.RWMutex
	files     map[string][]byte
	perms     map[string]fs.FileMode
	readErrs  map[string]error
	writeErrs map[string]error
	writes    int
}

// NewMemFileSystem creates a new in-memory filesystem
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files:     make(map[string][]byte),
		perms:     make(map[string]fs.FileMode),
		readErrs:  make(map[string]error),
		writeErrs: make(map[string]error),
	}
}

// ReadFile reads the entire file
func (f *MemFileSystem) ReadFile(name string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.readErrs[name]; err != nil {
		return nil, err
	}

	data, ok := f.files[name]
	if !ok {
		return nil, ErrNotExist
	}

	// Return a copy to prevent external modifications
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// WriteFileAtomic replaces the file content in one step
func (f *MemFileSystem) WriteFileAtomic(name string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.writeErrs[name]; err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	f.files[name] = dataCopy
	f.perms[name] = perm
	f.writes++
	return nil
}

// IsNotExist returns true if the error indicates a file doesn't exist
func (f *MemFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist) || errors.Is(err, fs.ErrNotExist)
}

// FailReads makes every subsequent read of name return err. A nil err clears it.
func (f *MemFileSystem) FailReads(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.readErrs, name)
		return
	}
	f.readErrs[name] = err
}

// FailWrites makes every subsequent write of name return err. A nil err clears it.
func (f *MemFileSystem) FailWrites(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.writeErrs, name)
		return
	}
	f.writeErrs[name] = err
}

// Perm returns the mode the file was last written with
func (f *MemFileSystem) Perm(name string) (fs.FileMode, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	perm, ok := f.perms[name]
	return perm, ok
}

// Writes returns how many successful writes have happened
func (f *MemFileSystem) Writes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.writes
}
