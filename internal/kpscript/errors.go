package kpscript

import (
	"errors"
	"fmt"
)

var ErrNoEntry = errors.New("no entry found")

// ExecutionError is returned when KPScript exits with a non-zero status.
// Command is the redacted command line.
type ExecutionError struct {
	Command    string
	ExitStatus int
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error while executing %s (exit status: %d)", e.Command, e.ExitStatus)
}

// OperationError is returned when KPScript exits cleanly but its last output
// line is not the success line. Message is that line, as printed by KPScript.
type OperationError struct {
	Command string
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("error returned by %s: %s", e.Command, e.Message)
}

type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format: %s", e.Format)
}
