package credentials

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/cord-sdk/cord-cli/internal/fs"
)

// DefaultFileName is the credential file name inside the user's home directory
const DefaultFileName = ".cord"

// filePerm keeps secrets readable by the owner only
const filePerm = 0600

// ResolvePath returns override when set, else <home>/.cord
func ResolvePath(override string) (string, error) {
	if override != "" {
		return homedir.Expand(override)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// StoreConfig configures a Store
type StoreConfig struct {
	// Path is the resolved credential file path
	Path string

	// FileSystem is an optional filesystem abstraction (defaults to OSFileSystem)
	FileSystem fs.FileSystem
}

// Store reads and writes a single credential file.
// Nothing is cached: every Read goes to the file.
type Store struct {
	path string
	fs   fs.FileSystem
}

// NewStore creates a store for cfg.Path
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("credentials path is required")
	}

	filesystem := cfg.FileSystem
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	return &Store{
		path: cfg.Path,
		fs:   filesystem,
	}, nil
}

// Path returns the file this store reads and writes
func (s *Store) Path() string {
	return s.path
}

// Read parses the credential file. A missing file yields an empty record.
func (s *Store) Read(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if s.fs.IsNotExist(err) {
			return Record{}, nil
		}
		return nil, &ReadError{Path: s.path, Err: err}
	}

	return Parse(data), nil
}

// Write merges partial over the on-disk record and replaces the file.
// Keys not named in partial keep their current values.
func (s *Store) Write(ctx context.Context, partial map[Key]string) error {
	if err := validateKeys(partial); err != nil {
		return err
	}
	if err := validateValues(partial); err != nil {
		return err
	}

	current, err := s.Read(ctx)
	if err != nil {
		return err
	}

	for k, v := range partial {
		current[k] = v
	}

	if err := s.fs.WriteFileAtomic(s.path, Format(current), filePerm); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

// Parse reads key=value lines. Lines are split on the first '=' only,
// keys and values are trimmed, and blank or unrecognized entries are dropped.
// When a key repeats, the last occurrence wins.
func Parse(data []byte) Record {
	record := Record{}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !IsKey(key) || value == "" {
			continue
		}
		record[Key(key)] = value
	}

	return record
}

// Format renders a record as key=value lines in canonical key order
func Format(r Record) []byte {
	var buf bytes.Buffer
	for _, k := range Keys {
		v, ok := r.Get(k)
		if !ok {
			continue
		}
		buf.WriteString(string(k))
		buf.WriteByte('=')
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
