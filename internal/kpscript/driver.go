// Package kpscript drives the KeePass KPScript command line tool.
//
// Every operation builds one command line, runs it, and checks that KPScript
// printed its success line last. Passwords only ever appear in the command
// line handed to the process: errors and logs show a redacted copy.
//
// Debug mode is the exception. It logs the real command line, secrets
// included, and must only be used on a local machine.
package kpscript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/carved4/go-kpscript/internal/log"
	"github.com/carved4/go-kpscript/internal/secret"
	"github.com/carved4/go-kpscript/internal/selector"
	"go.uber.org/zap"
)

// SuccessLine is the last line KPScript prints when a command succeeds.
const SuccessLine = "OK: Operation completed successfully."

// Arg is one command line argument. Plain and *secret.Value implement it.
type Arg interface {
	Reveal() string
	Redacted() string
}

// Plain is an argument that is shown as is.
type Plain string

func (p Plain) Reveal() string   { return string(p) }
func (p Plain) Redacted() string { return string(p) }

func Args(values ...string) []Arg {
	args := make([]Arg, 0, len(values))
	for _, v := range values {
		args = append(args, Plain(v))
	}
	return args
}

type Driver struct {
	command      string
	debug        bool
	executor     Executor
	logger       *zap.Logger
	timeout      time.Duration
	seedDatabase string
}

type Option func(*Driver)

// WithDebug logs every command line unredacted with its exit status and output.
func WithDebug(debug bool) Option {
	return func(d *Driver) { d.debug = debug }
}

func WithExecutor(executor Executor) Option {
	return func(d *Driver) { d.executor = executor }
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithTimeout bounds each KPScript run. Zero waits forever.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// WithSeedDatabase sets the pass_encryptor.kdbx file used by EncryptPassword.
func WithSeedDatabase(path string) Option {
	return func(d *Driver) { d.seedDatabase = path }
}

// New returns a driver for the given KPScript command, e.g.
// `/opt/KeePass/KPScript.exe` or `mono /opt/KeePass/KPScript.exe`.
func New(command string, opts ...Option) *Driver {
	d := &Driver{
		command:  command,
		executor: ShellExecutor{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		if d.debug {
			d.logger = log.New(log.Options{Level: log.LevelDebug})
		} else {
			d.logger = zap.NewNop()
		}
	}
	if d.seedDatabase == "" {
		d.seedDatabase = defaultSeedDatabase()
	}
	return d
}

func (d *Driver) Command() string { return d.command }

func (d *Driver) Select() *selector.Select {
	return selector.New()
}

// Run executes KPScript with args and returns its output without the final
// status line.
func (d *Driver) Run(ctx context.Context, args ...Arg) (string, error) {
	revealed := make([]string, 0, len(args)+1)
	redacted := make([]string, 0, len(args)+1)
	revealed = append(revealed, d.command)
	redacted = append(redacted, d.command)
	for _, arg := range args {
		revealed = append(revealed, arg.Reveal())
		redacted = append(redacted, arg.Redacted())
	}
	cmd := secret.NewWithDisplay(strings.Join(revealed, " "), strings.Join(redacted, " "))
	defer cmd.Erase()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	result, err := d.executor.Execute(ctx, cmd.Reveal())
	if err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", cmd, err)
	}
	lines := splitLines(result.Stdout)

	if d.debug {
		d.logger.Debug("executed kpscript",
			zap.String("command", cmd.Reveal()),
			zap.Int("exit_status", result.ExitStatus),
			zap.Strings("stdout", lines),
		)
	}

	if result.ExitStatus != 0 {
		return "", &ExecutionError{Command: cmd.Redacted(), ExitStatus: result.ExitStatus}
	}
	var last string
	if len(lines) > 0 {
		last = lines[len(lines)-1]
	}
	if last != SuccessLine {
		return "", &OperationError{Command: cmd.Redacted(), Message: last}
	}
	return strings.Join(lines[:len(lines)-1], "\n"), nil
}

// Open returns a handle on a database file. An empty credential field is
// left out of the command line.
func (d *Driver) Open(file string, creds Credentials) *Database {
	db := &Database{driver: d, file: file, keyFile: creds.KeyFile}
	if creds.Password != "" {
		db.password = secret.New(creds.Password)
	}
	if creds.PasswordEnc != "" {
		db.passwordEnc = secret.New(creds.PasswordEnc)
	}
	return db
}

// splitLines drops trailing empty lines, so a final newline doesn't hide the
// status line.
func splitLines(stdout []byte) []string {
	text := strings.ReplaceAll(string(stdout), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func defaultSeedDatabase() string {
	exe, err := os.Executable()
	if err != nil {
		return seedDatabaseName
	}
	return filepath.Join(filepath.Dir(exe), seedDatabaseName)
}
