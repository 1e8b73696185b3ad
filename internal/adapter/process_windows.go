//go:build windows

package adapter

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

func configureSysProcAttr(cmd *exec.Cmd, plan m.CommandPlan) {
	if !plan.HideWindow {
		return
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
