package domain

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/alessio/shellescape"

	"objdiff.dev/pkg/objdiff/internal/adapter"
	m "objdiff.dev/pkg/objdiff/internal/model"
)

const (
	// MissingProjectDirMessage is reported when a build is requested before a
	// project directory is known.
	MissingProjectDirMessage = "Missing project dir"

	defaultMake = "make"
	wslProgram  = "wsl"
	goosWindows = "windows"
)

// Builder runs the project's build tool to produce one artifact.
type Builder interface {
	// Run builds targetFile and never fails: every problem is reported in the
	// returned status.
	Run(config m.BuildConfig, targetFile m.Path) m.BuildStatus
}

type builder struct {
	process adapter.ProcessAdapter
	goos    string
}

// NewBuilder constructs a Builder that spawns processes through process and
// plans commands for the host platform.
func NewBuilder(process adapter.ProcessAdapter) Builder {
	return newBuilderForOS(process, runtime.GOOS)
}

func newBuilderForOS(process adapter.ProcessAdapter, goos string) *builder {
	return &builder{process: process, goos: goos}
}

func (b *builder) Run(config m.BuildConfig, targetFile m.Path) m.BuildStatus {
	cwd := config.ProjectDir()
	if !cwd.IsSet() {
		return m.BuildStatus{Success: false, Stderr: MissingProjectDirMessage}
	}

	plan := NewCommandPlan(config, cwd, targetFile, b.goos)
	cmdline := FormatCmdline(plan)

	slog.Debug("Running build", "cmdline", cmdline, "dir", plan.Dir)

	status, err := b.execute(plan)
	if err != nil {
		slog.Error("Build failed to run", "cmdline", cmdline, "error", err)
		return m.BuildStatus{Success: false, Cmdline: cmdline, Stderr: err.Error()}
	}

	status.Cmdline = cmdline

	slog.Debug("Build finished", "cmdline", cmdline, "success", status.Success)

	return status
}

func (b *builder) execute(plan m.CommandPlan) (m.BuildStatus, error) {
	result, err := b.process.Run(plan)
	if err != nil {
		return m.BuildStatus{}, err
	}

	if !utf8.Valid(result.Stdout) {
		return m.BuildStatus{}, fmt.Errorf("failed to process stdout: %w", ErrInvalidUTF8)
	}

	if !utf8.Valid(result.Stderr) {
		return m.BuildStatus{}, fmt.Errorf("failed to process stderr: %w", ErrInvalidUTF8)
	}

	return m.BuildStatus{
		Success: result.ExitCode == 0,
		Stdout:  string(result.Stdout),
		Stderr:  string(result.Stderr),
	}, nil
}

// NewCommandPlan decides how to invoke the build tool for arg on goos.
//
// Outside Windows the tool runs directly in cwd. On Windows the argument is
// rewritten with forward slashes, and when a WSL distribution is selected
// the tool runs inside it through the wsl launcher.
func NewCommandPlan(config m.BuildConfig, cwd, arg m.Path, goos string) m.CommandPlan {
	tool := config.CustomMake()
	if tool == "" {
		tool = defaultMake
	}

	if goos != goosWindows {
		return m.CommandPlan{
			Program: tool,
			Args:    []string{string(arg)},
			Dir:     cwd,
		}
	}

	slashArg := toSlash(string(arg))

	if distro := config.SelectedWSLDistro(); distro != "" {
		return m.CommandPlan{
			Program:    wslProgram,
			Args:       []string{"--cd", string(cwd), "-d", distro, "--", tool, slashArg},
			HideWindow: true,
		}
	}

	return m.CommandPlan{
		Program:    tool,
		Args:       []string{slashArg},
		Dir:        cwd,
		HideWindow: true,
	}
}

// FormatCmdline renders plan as a shell-escaped command line for display.
func FormatCmdline(plan m.CommandPlan) string {
	parts := make([]string, 0, len(plan.Args)+1)
	parts = append(parts, shellescape.Quote(plan.Program))

	for _, arg := range plan.Args {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}

// toSlash converts Windows separators regardless of the host, so plans for
// Windows can be built and tested anywhere.
func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
