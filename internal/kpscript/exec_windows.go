//go:build windows

package kpscript

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	cmd := exec.CommandContext(ctx, comspec)
	// /S keeps every quote inside the outer pair untouched
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: fmt.Sprintf(`"%s" /S /C "%s"`, comspec, cmdline),
	}
	return cmd
}
