//go:build !windows

package kpscript

import (
	"context"
	"os/exec"
)

func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	return exec.CommandContext(ctx, "/bin/sh", "-c", cmdline)
}
