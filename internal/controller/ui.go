// Package controller renders project and build results for the objdiff CLI.
package controller

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"objdiff.dev/pkg/objdiff/internal/domain"
)

// MatchResult is the watch-pattern verdict for one path.
type MatchResult struct {
	Path    string
	Matched bool
}

// UI defines how command results are shown to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayConfig(project *domain.LoadedProject) error
	DisplayObjects(project *domain.LoadedProject) error
	DisplayBuilds(builds []domain.ObjectBuild) error
	DisplayMatches(matches []MatchResult) error
}

// NewUI picks the interactive UI when output goes to a terminal.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
