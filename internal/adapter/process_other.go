//go:build !windows

package adapter

import (
	"os/exec"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

func configureSysProcAttr(_ *exec.Cmd, _ m.CommandPlan) {}
