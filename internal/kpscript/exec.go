package kpscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// waitDelay bounds how long a killed process's children may keep its output
// pipes open.
const waitDelay = 2 * time.Second

type ExecResult struct {
	Stdout     []byte
	Stderr     []byte
	ExitStatus int
}

// Executor runs one complete command line and reports what it printed and how
// it exited. A non-zero exit status is a result, not an error.
type Executor interface {
	Execute(ctx context.Context, cmdline string) (*ExecResult, error)
}

// ShellExecutor hands the command line to the platform shell, so a command
// prefix such as `mono /opt/KPScript.exe` and the double-quoted arguments are
// parsed the way a terminal would.
type ShellExecutor struct{}

func (ShellExecutor) Execute(ctx context.Context, cmdline string) (*ExecResult, error) {
	cmd := shellCommand(ctx, cmdline)
	cmd.WaitDelay = waitDelay

	// both pipes are drained into buffers so a chatty stderr can't block the tool
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &ExecResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("process interrupted: %w", ctxErr)
	}
	result.ExitStatus = exitErr.ExitCode()
	if result.ExitStatus == -1 {
		// killed by a signal
		result.ExitStatus = 1
	}
	return result, nil
}
