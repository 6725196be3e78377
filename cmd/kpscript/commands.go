package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carved4/go-kpscript/internal/crypto"
	"github.com/carved4/go-kpscript/internal/kpscript"
	"github.com/carved4/go-kpscript/internal/secret"
	"github.com/carved4/go-kpscript/internal/ui"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	var clip bool
	cmd := &cobra.Command{
		Use:   "get <db> <title>",
		Short: "Print the password of the entry with the given title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			password, err := db.PasswordFor(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if !clip {
				ui.PrintValues(password)
				return nil
			}
			if err := writeClipboard(password); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			ui.PrintSuccess("+", fmt.Sprintf("password of '%s' copied to clipboard", args[1]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clip, "clip", false, "copy the password to the clipboard instead of printing it")
	return cmd
}

func newEntriesCmd(a *app) *cobra.Command {
	var (
		sel   selectorFlags
		field string
		opts  kpscript.EntriesOptions
	)
	cmd := &cobra.Command{
		Use:   "entries <db>",
		Short: "Print a field of every selected entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sel.build(cmd)
			if err != nil {
				return err
			}
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			return db.WithEntriesString(cmd.Context(), s, field, opts, func(values []*secret.Value) error {
				for _, v := range values {
					ui.PrintValues(v.Reveal())
				}
				return nil
			})
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&field, "field", "Password", "field to print")
	cmd.Flags().BoolVar(&opts.FailIfNotExists, "fail-if-not-exists", false, "fail when an entry lacks the field")
	cmd.Flags().BoolVar(&opts.FailIfNoEntry, "fail-if-no-entry", false, "fail when no entry is selected")
	cmd.Flags().BoolVar(&opts.Spr, "spr", false, "compile field references and placeholders")
	return cmd
}

type editFlags struct {
	set         []string
	setPassword bool
	icon        int
	customIcon  int
	expires     bool
	expiryTime  string
	backup      bool
}

func newEditCmd(a *app) *cobra.Command {
	var (
		sel  selectorFlags
		edit editFlags
	)
	cmd := &cobra.Command{
		Use:   "edit <db>",
		Short: "Edit the selected entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sel.build(cmd)
			if err != nil {
				return err
			}
			opts, err := edit.options(cmd)
			if err != nil {
				return err
			}
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			if edit.setPassword {
				password, err := readPasswordTwice("new entry password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				value := secret.New(string(password))
				crypto.CleanupBytes(password)
				defer value.Erase()
				opts.SecretFields = append(opts.SecretFields, kpscript.SecretField{Name: "Password", Value: value})
			}

			if err := db.EditEntries(cmd.Context(), s, opts); err != nil {
				return err
			}
			ui.PrintSuccess("+", "entries updated")
			return nil
		},
	}
	sel.register(cmd)
	f := cmd.Flags()
	f.StringArrayVar(&edit.set, "set", nil, "set a field, as Name=Value (repeatable)")
	f.BoolVar(&edit.setPassword, "set-password", false, "prompt for a new password")
	f.IntVar(&edit.icon, "icon", 0, "set the icon index")
	f.IntVar(&edit.customIcon, "custom-icon", 0, "set the custom icon index")
	f.BoolVar(&edit.expires, "expires-flag", false, "set whether the entries expire")
	f.StringVar(&edit.expiryTime, "expiry-time", "", "set the expiry time, local time as 2006-01-02T15:04:05")
	f.BoolVar(&edit.backup, "backup", false, "back up the entries before editing them")
	return cmd
}

func (e *editFlags) options(cmd *cobra.Command) (kpscript.EditOptions, error) {
	fields, err := parseAssignments(e.set)
	if err != nil {
		return kpscript.EditOptions{}, err
	}
	opts := kpscript.EditOptions{Fields: fields, CreateBackup: e.backup}
	for _, f := range fields {
		if strings.EqualFold(f.Name, "Password") {
			return kpscript.EditOptions{}, fmt.Errorf("use --set-password to change passwords")
		}
	}

	flags := cmd.Flags()
	if flags.Changed("icon") {
		opts.Icon = &e.icon
	}
	if flags.Changed("custom-icon") {
		opts.CustomIcon = &e.customIcon
	}
	if flags.Changed("expires-flag") {
		opts.Expires = &e.expires
	}
	if e.expiryTime != "" {
		t, err := time.ParseInLocation(kpscript.ExpiryTimeLayout, e.expiryTime, time.Local)
		if err != nil {
			return kpscript.EditOptions{}, fmt.Errorf("invalid expiry time: %w", err)
		}
		opts.ExpiryTime = &t
	}
	return opts, nil
}

func newDetachCmd(a *app) *cobra.Command {
	var opts kpscript.DetachOptions
	cmd := &cobra.Command{
		Use:   "detach <db>",
		Short: "Save attachments as files and remove them from the entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			if opts.CopyToDir != "" {
				ui.PrintInfo("*", fmt.Sprintf("detaching from a copy of %s in %s", db.File(), opts.CopyToDir))
			}
			if err := db.DetachBins(cmd.Context(), opts); err != nil {
				return err
			}
			if opts.CopyToDir != "" {
				ui.PrintSuccess("+", fmt.Sprintf("attachments saved to %s", opts.CopyToDir))
			} else {
				ui.PrintSuccess("+", "attachments detached")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.CopyToDir, "to", "", "work on a copy of the database in this directory and leave the original untouched")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format    string
		out       string
		groupPath string
		opts      kpscript.ExportOptions
	)
	cmd := &cobra.Command{
		Use:   "export <db>",
		Short: "Export the database to another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if groupPath != "" {
				opts.GroupPath = strings.Split(groupPath, "/")
			}
			db, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			ui.PrintInfo("*", fmt.Sprintf("exporting %s as %s", db.File(), format))
			if err := db.Export(cmd.Context(), format, out, opts); err != nil {
				return err
			}
			ui.PrintSuccess("+", fmt.Sprintf("exported to %s", out))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "export format, e.g. \"KeePass XML (2.x)\"")
	f.StringVar(&out, "out", "", "output file")
	f.StringVar(&groupPath, "group-path", "", "only export this group, e.g. Internet/Mail")
	f.StringVar(&opts.XslFile, "xsl", "", "XSL file for the transform format")
	cmd.MarkFlagRequired("format")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newEncryptPasswordCmd(a *app) *cobra.Command {
	var store string
	cmd := &cobra.Command{
		Use:   "encrypt-password",
		Short: "Encrypt a password for --password-enc, optionally caching it in the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPasswordTwice("password to encrypt: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password := secret.New(string(raw))
			crypto.CleanupBytes(raw)
			defer password.Erase()

			encrypted, err := a.driver.EncryptPassword(cmd.Context(), password)
			if err != nil {
				return err
			}
			if store == "" {
				ui.PrintValues(encrypted)
				return nil
			}
			path := a.cfg.Database(store).Path
			if err := storeCached(path, encrypted); err != nil {
				return err
			}
			ui.PrintSuccess("+", fmt.Sprintf("encrypted password cached for %s", path))
			ui.PrintMuted("  it only opens databases for the current user on this machine")
			return nil
		},
	}
	cmd.Flags().StringVar(&store, "store", "", "cache the encrypted password in the keyring for this database")
	return cmd
}

func newForgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <db>",
		Short: "Remove the encrypted password cached for a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Database(args[0]).Path
			if err := deleteCached(path); err != nil {
				return err
			}
			ui.PrintSuccess("+", fmt.Sprintf("forgot the encrypted password of %s", path))
			return nil
		},
	}
}

func newDatabasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List the databases of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.cfg.Databases) == 0 {
				ui.PrintMuted("no database configured")
				return nil
			}
			names := make([]string, 0, len(a.cfg.Databases))
			for name := range a.cfg.Databases {
				names = append(names, name)
			}
			sort.Strings(names)

			ui.PrintTitle("databases")
			for _, name := range names {
				db := a.cfg.Databases[name]
				line := fmt.Sprintf("%s  %s", name, db.Path)
				if db.KeyFile != "" {
					line += "  key file " + db.KeyFile
				}
				if db.UseKeyring {
					line += "  (keyring)"
				}
				ui.PrintListItem(">", line)
			}
			return nil
		},
	}
}
