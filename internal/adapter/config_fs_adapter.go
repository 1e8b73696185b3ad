// Package adapter contains filesystem and process adapters for the objdiff CLI.
package adapter

import (
	"io/fs"
	"os"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

// ConfigFSAdapter hides the filesystem calls made while discovering and
// writing project files so the domain can be tested against fakes.
type ConfigFSAdapter interface {
	// Open opens path for reading. The returned file can be stat'ed.
	Open(path m.Path) (fs.File, error)

	// CreateExclusive writes content to a new file and fails if the file
	// already exists.
	CreateExclusive(path m.Path, content []byte, perm os.FileMode) error
}

// LocalConfigFSAdapter is the os-backed ConfigFSAdapter.
type LocalConfigFSAdapter struct{}

// NewLocalConfigFSAdapter constructs a LocalConfigFSAdapter.
func NewLocalConfigFSAdapter() *LocalConfigFSAdapter {
	return &LocalConfigFSAdapter{}
}

// Open opens path for reading.
func (a *LocalConfigFSAdapter) Open(path m.Path) (fs.File, error) {
	// #nosec G304 - project files are looked up under the user's project dir
	return os.Open(string(path))
}

// CreateExclusive writes content to a new file at path.
func (a *LocalConfigFSAdapter) CreateExclusive(path m.Path, content []byte, perm os.FileMode) error {
	f, err := os.OpenFile(string(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
