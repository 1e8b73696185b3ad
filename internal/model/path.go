// Package model defines the data structures shared by the objdiff project
// loader and build runner.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Join appends elem to p using the host path separator. An absolute elem
// replaces p.
func (p Path) Join(elem Path) Path {
	if filepath.IsAbs(string(elem)) {
		return elem
	}

	return Path(filepath.Join(string(p), string(elem)))
}

// RelativeTo expresses p relative to dir when p lies inside dir, and returns
// p unchanged otherwise.
func (p Path) RelativeTo(dir Path) Path {
	if !dir.IsSet() {
		return p
	}

	rel, err := filepath.Rel(string(dir), string(p))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}

	return Path(rel)
}

// IsSet reports whether the path was provided.
func (p Path) IsSet() bool {
	return p != ""
}

// String returns the path as text.
func (p Path) String() string {
	return string(p)
}

// Side selects one half of a comparison.
type Side int

const (
	// SideTarget is the reference build being compared against.
	SideTarget Side = iota
	// SideBase is the work-in-progress build under comparison.
	SideBase
)

// String returns the lower-case name of the side.
func (s Side) String() string {
	switch s {
	case SideTarget:
		return "target"
	case SideBase:
		return "base"
	default:
		return "unknown"
	}
}
