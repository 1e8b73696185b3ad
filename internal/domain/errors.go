package domain

import (
	"errors"
	"fmt"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

// ErrNoProjectConfig is returned when a directory holds none of the
// recognised project file names.
var ErrNoProjectConfig = errors.New("no project configuration found")

// ErrInvalidUTF8 is returned when a build tool writes output that is not
// valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("output is not valid UTF-8")

// ConfigError reports a project file that exists but could not be decoded.
type ConfigError struct {
	Path m.Path
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to load project config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PatternError reports a watch pattern that is not a valid glob.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid watch pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// VersionError reports a project that requires a newer tool, or that
// declares a minimum version that cannot be parsed.
type VersionError struct {
	Required string
	Current  string
	Err      error
}

func (e *VersionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid min_version %q: %v", e.Required, e.Err)
	}

	return fmt.Sprintf("project requires objdiff %s or newer (running %s)", e.Required, e.Current)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}
