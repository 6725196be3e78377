package kpscript

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

const (
	kpscriptCmd = "/path/to/KPScript.exe"
	okLine      = "OK: Operation completed successfully."
)

// expectedCall is one scripted KPScript run. Command is matched exactly,
// unless Pattern is set.
type expectedCall struct {
	Command    string
	Pattern    *regexp.Regexp
	Stdout     string
	ExitStatus int
}

type fakeExecutor struct {
	t     *testing.T
	mu    sync.Mutex
	calls []expectedCall
	got   []string
}

func (f *fakeExecutor) Execute(_ context.Context, cmdline string) (*ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.got = append(f.got, cmdline)
	idx := len(f.got) - 1
	if idx >= len(f.calls) {
		f.t.Errorf("unexpected call to KPScript: %s", cmdline)
		return nil, errors.New("unexpected call")
	}
	call := f.calls[idx]
	if call.Pattern != nil {
		assert.Regexp(f.t, call.Pattern, cmdline)
	} else {
		assert.Equal(f.t, call.Command, cmdline)
	}
	return &ExecResult{Stdout: []byte(call.Stdout), ExitStatus: call.ExitStatus}, nil
}

func (f *fakeExecutor) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

// expectCalls returns an executor that fails the test unless exactly the
// given calls are made, in order.
func expectCalls(t *testing.T, calls ...expectedCall) *fakeExecutor {
	t.Helper()
	f := &fakeExecutor{t: t, calls: calls}
	t.Cleanup(func() {
		assert.Len(t, f.commands(), len(calls), "number of KPScript calls")
	})
	return f
}

func newTestDriver(t *testing.T, debug bool, executor Executor, opts ...Option) *Driver {
	opts = append([]Option{
		WithDebug(debug),
		WithExecutor(executor),
		WithLogger(zaptest.NewLogger(t)),
	}, opts...)
	return New(kpscriptCmd, opts...)
}

// eachDebugMode runs fn with debug logs off and on.
func eachDebugMode(t *testing.T, fn func(t *testing.T, debug bool)) {
	for _, debug := range []bool{false, true} {
		t.Run(fmt.Sprintf("debug=%v", debug), func(t *testing.T) {
			fn(t, debug)
		})
	}
}
