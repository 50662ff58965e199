package credentials

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured matches every ConfigurationMissingError via errors.Is
var ErrNotConfigured = errors.New("cord is not configured")

// Surface identifies which API surface a credential pair authorizes
type Surface string

const (
	SurfaceApplication Surface = "application"
	SurfaceManagement  Surface = "management"
)

// ConfigurationMissingError reports required credential keys that are absent.
// It is user-actionable and never worth retrying.
type ConfigurationMissingError struct {
	Surface Surface
	Missing []Key
}

func (e *ConfigurationMissingError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = string(k)
	}
	missing := strings.Join(names, " and ")

	switch e.Surface {
	case SurfaceApplication:
		return fmt.Sprintf("missing %s: please initialize cord first, run \"cord init\"", missing)
	case SurfaceManagement:
		return fmt.Sprintf("missing %s: please run \"cord init\" and add these values", missing)
	default:
		return fmt.Sprintf("missing %s", missing)
	}
}

// Is makes errors.Is(err, ErrNotConfigured) hold
func (e *ConfigurationMissingError) Is(target error) bool {
	return target == ErrNotConfigured
}

// ReadError is an I/O failure reading the credential file, other than the file being absent
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read credentials from %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is an I/O failure replacing the credential file
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write credentials to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
