package kpscript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/carved4/go-kpscript/internal/secret"
	"github.com/carved4/go-kpscript/internal/selector"
)

// ExpiryTimeLayout is the timestamp format KPScript expects, without zone.
const ExpiryTimeLayout = "2006-01-02T15:04:05"

const unknownFormatMessage = "E: Unknown format!"

// Credentials open a database. At least one field should be set.
type Credentials struct {
	Password    string
	PasswordEnc string
	KeyFile     string
}

type Database struct {
	driver      *Driver
	file        string
	password    *secret.Value
	passwordEnc *secret.Value
	keyFile     string
}

type EntriesOptions struct {
	FailIfNotExists bool
	FailIfNoEntry   bool
	// Spr compiles field references and placeholders of the retrieved values.
	Spr bool
}

// SecretField is a field value set by EditEntries that is redacted from
// error messages.
type SecretField struct {
	Name  string
	Value *secret.Value
}

// EditOptions lists the changes made by EditEntries. Nil pointers leave the
// matching property untouched.
type EditOptions struct {
	Fields       []selector.Field
	SecretFields []SecretField
	Icon         *int
	CustomIcon   *int
	Expires      *bool
	ExpiryTime   *time.Time
	CreateBackup bool
}

type DetachOptions struct {
	// CopyToDir extracts the binaries from a copy of the database placed in
	// this directory, leaving the original file untouched.
	CopyToDir string
}

type ExportOptions struct {
	GroupPath []string
	XslFile   string
}

func (db *Database) File() string { return db.file }

// EntriesString returns the value of field for every selected entry.
func (db *Database) EntriesString(ctx context.Context, sel *selector.Select, field string, opts EntriesOptions) ([]string, error) {
	args := Args(
		"-c:GetEntryString",
		sel.String(),
		"-Field:"+selector.Quote(field),
	)
	if opts.FailIfNotExists {
		args = append(args, Plain("-FailIfNotExists"))
	}
	if opts.FailIfNoEntry {
		args = append(args, Plain("-FailIfNoEntry"))
	}
	if opts.Spr {
		args = append(args, Plain("-Spr"))
	}
	out, err := db.execute(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return []string{}, nil
	}
	return strings.Split(out, "\n"), nil
}

// WithEntriesString is EntriesString with every value wrapped in a
// secret.Value. The values are erased when fn returns, so fn must not keep
// copies of them.
func (db *Database) WithEntriesString(ctx context.Context, sel *selector.Select, field string, opts EntriesOptions, fn func(values []*secret.Value) error) error {
	var values []*secret.Value
	defer func() { secret.EraseAll(values) }()

	raw, err := db.EntriesString(ctx, sel, field, opts)
	if err != nil {
		return err
	}
	values = secret.Wrap(raw)
	return fn(values)
}

// PasswordFor returns the password of the first entry with the given title.
func (db *Database) PasswordFor(ctx context.Context, title string) (string, error) {
	values, err := db.EntriesString(ctx, selector.New().Field("Title", title), "Password", EntriesOptions{})
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("%w with title %q", ErrNoEntry, title)
	}
	return values[0], nil
}

func (db *Database) EditEntries(ctx context.Context, sel *selector.Select, opts EditOptions) error {
	args := Args("-c:EditEntry", sel.String())
	for _, f := range opts.Fields {
		args = append(args, Plain("-set-"+selector.Token(f.Name)+":"+selector.Quote(f.Value)))
	}
	for _, f := range opts.SecretFields {
		name := "-set-" + selector.Token(f.Name) + ":"
		flag := f.Value.EncloseEscaped(name+`"`, `"`, name+`"`+secret.Mask+`"`, selector.AppendEscaped)
		defer flag.Erase()
		args = append(args, flag)
	}
	if opts.Icon != nil {
		args = append(args, Plain("-setx-Icon:"+strconv.Itoa(*opts.Icon)))
	}
	if opts.CustomIcon != nil {
		args = append(args, Plain("-setx-CustomIcon:"+strconv.Itoa(*opts.CustomIcon)))
	}
	if opts.Expires != nil {
		args = append(args, Plain("-setx-Expires:"+strconv.FormatBool(*opts.Expires)))
	}
	if opts.ExpiryTime != nil {
		args = append(args, Plain(fmt.Sprintf("-setx-ExpiryTime:\"%s\"", opts.ExpiryTime.Format(ExpiryTimeLayout))))
	}
	if opts.CreateBackup {
		args = append(args, Plain("-CreateBackup"))
	}
	_, err := db.execute(ctx, args...)
	return err
}

// DetachBins saves the entries' attachments as files and removes them from
// the database. KPScript puts the files next to the database it works on.
func (db *Database) DetachBins(ctx context.Context, opts DetachOptions) (err error) {
	if opts.CopyToDir == "" {
		_, err = db.execute(ctx, Plain("-c:DetachBins"))
		return err
	}

	if err := os.MkdirAll(opts.CopyToDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", opts.CopyToDir, err)
	}
	// detaching is destructive, so it runs on a copy
	tmpDatabase := filepath.Join(opts.CopyToDir, filepath.Base(db.file)+".tmp.kdbx")
	if err := copyFile(db.file, tmpDatabase); err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(tmpDatabase); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove temporary database: %w", rmErr)
		}
	}()
	return db.withFile(tmpDatabase).DetachBins(ctx, DetachOptions{})
}

// Export writes the database to file using one of the formats of the KeePass
// export dialog.
func (db *Database) Export(ctx context.Context, format, file string, opts ExportOptions) error {
	args := Args(
		"-c:Export",
		"-Format:"+selector.Quote(format),
		"-OutFile:"+selector.Quote(file),
	)
	if len(opts.GroupPath) > 0 {
		args = append(args, Plain("-GroupPath:" + selector.Quote(strings.Join(opts.GroupPath, "/"))))
	}
	if opts.XslFile != "" {
		args = append(args, Plain("-XslFile:" + selector.Quote(opts.XslFile)))
	}
	out, err := db.execute(ctx, args...)
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) && strings.Contains(opErr.Message, unknownFormatMessage) {
			return &UnknownFormatError{Format: format}
		}
		return err
	}
	if strings.Contains(out, unknownFormatMessage) {
		return &UnknownFormatError{Format: format}
	}
	return nil
}

// Close erases the credentials held by the handle.
func (db *Database) Close() {
	db.password.Erase()
	db.passwordEnc.Erase()
}

// withFile shares the credentials with a handle on another file. The returned
// handle must not be closed.
func (db *Database) withFile(file string) *Database {
	return &Database{
		driver:      db.driver,
		file:        file,
		password:    db.password,
		passwordEnc: db.passwordEnc,
		keyFile:     db.keyFile,
	}
}

func (db *Database) execute(ctx context.Context, args ...Arg) (string, error) {
	kdbxArgs := []Arg{Plain(selector.Quote(db.file))}
	var flags []*secret.Value
	defer func() { secret.EraseAll(flags) }()

	if db.password != nil {
		flags = append(flags, db.password.EncloseEscaped(`-pw:"`, `"`, `-pw:"`+secret.Mask+`"`, selector.AppendEscaped))
	}
	if db.passwordEnc != nil {
		flags = append(flags, db.passwordEnc.EncloseEscaped(`-pw-enc:"`, `"`, `-pw-enc:"`+secret.Mask+`"`, selector.AppendEscaped))
	}
	for _, f := range flags {
		kdbxArgs = append(kdbxArgs, f)
	}
	if db.keyFile != "" {
		kdbxArgs = append(kdbxArgs, Plain("-keyfile:" + selector.Quote(db.keyFile)))
	}
	return db.driver.Run(ctx, append(kdbxArgs, args...)...)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
