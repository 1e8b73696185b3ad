package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

// ProcessResult is the raw outcome of a finished child process.
type ProcessResult struct {
	// ExitCode is -1 when the process did not exit normally (e.g. killed by a signal).
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// ProcessAdapter abstracts spawning external build tools.
type ProcessAdapter interface {
	// Run executes plan synchronously and waits for it to finish. A non-zero
	// exit is not an error; failing to start the process is.
	Run(plan m.CommandPlan) (ProcessResult, error)
}

// LocalProcessAdapter runs plans with os/exec.
type LocalProcessAdapter struct{}

// NewLocalProcessAdapter constructs a LocalProcessAdapter.
func NewLocalProcessAdapter() *LocalProcessAdapter {
	return &LocalProcessAdapter{}
}

// Run executes plan and captures both output streams.
func (a *LocalProcessAdapter) Run(plan m.CommandPlan) (ProcessResult, error) {
	// #nosec G204 - the build tool is chosen by the project owner
	cmd := exec.Command(plan.Program, plan.Args...)
	cmd.Dir = string(plan.Dir)
	configureSysProcAttr(cmd, plan)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ProcessResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("failed to execute build: %w", err)
		}
	}

	result.ExitCode = cmd.ProcessState.ExitCode()

	return result, nil
}
