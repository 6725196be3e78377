package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/carved4/go-kpscript/internal/config"
	"github.com/carved4/go-kpscript/internal/crypto"
	"github.com/carved4/go-kpscript/internal/keyring"
	"github.com/carved4/go-kpscript/internal/kpscript"
	"github.com/carved4/go-kpscript/internal/log"
	"github.com/carved4/go-kpscript/internal/ui"
	"github.com/spf13/cobra"
)

// Swapped in tests.
var logOutput io.Writer = os.Stderr

var (
	readPassword      = crypto.ReadUserPass
	readPasswordTwice = crypto.ReadUserPassTwice
	loadCached        = keyring.Load
	storeCached       = keyring.Store
	deleteCached      = keyring.Delete
	writeClipboard    = clipboard.WriteAll
)

type globalFlags struct {
	configPath  string
	command     string
	debug       bool
	keyFile     string
	passwordEnc string
	noKeyring   bool
	noPassword  bool
}

// app is the state shared by every command once the config is loaded.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	driver *kpscript.Driver
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "kpscript",
		Short:         "kpscript reads and edits KeePass databases through KPScript",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "config file (default $KPSCRIPT_CONFIG or <user config dir>/kpscript/config.yaml)")
	f.StringVar(&a.flags.command, "kpscript", "", "KPScript command, e.g. \"mono /opt/keepass/KPScript.exe\"")
	f.BoolVar(&a.flags.debug, "debug", false, "log every KPScript command line, passwords included")
	f.StringVar(&a.flags.keyFile, "key-file", "", "key file of the database")
	f.StringVar(&a.flags.passwordEnc, "password-enc", "", "encrypted password, as printed by encrypt-password")
	f.BoolVar(&a.flags.noKeyring, "no-keyring", false, "ignore the encrypted password cached in the keyring")
	f.BoolVar(&a.flags.noPassword, "no-password", false, "open the database with the key file alone")

	root.AddCommand(
		newGetCmd(a),
		newEntriesCmd(a),
		newEditCmd(a),
		newDetachCmd(a),
		newExportCmd(a),
		newEncryptPasswordCmd(a),
		newForgetCmd(a),
		newDatabasesCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.command != "" {
		cfg.KPScript = a.flags.command
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = a.flags.debug
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	log.SetDefault(log.New(log.Options{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, Output: logOutput}))

	opts := []kpscript.Option{
		kpscript.WithDebug(cfg.Debug),
		kpscript.WithTimeout(cfg.Timeout),
	}
	if cfg.Debug {
		// the debug lines are emitted whatever log_level says
		opts = append(opts, kpscript.WithLogger(log.New(log.Options{Level: log.LevelDebug, Encoding: cfg.LogEncoding, Output: logOutput})))
	} else {
		opts = append(opts, kpscript.WithLogger(log.Default()))
	}
	if cfg.SeedDatabase != "" {
		opts = append(opts, kpscript.WithSeedDatabase(cfg.SeedDatabase))
	}
	a.driver = kpscript.New(cfg.KPScript, opts...)
	log.Debugf("using kpscript command %q", cfg.KPScript)
	return nil
}

// open resolves the credentials of a database: the --password-enc flag, then
// the keyring cache, then the key file alone when --no-password is given,
// then a password prompt.
func (a *app) open(name string) (*kpscript.Database, error) {
	db := a.cfg.Database(name)
	creds := kpscript.Credentials{KeyFile: db.KeyFile}
	if a.flags.keyFile != "" {
		creds.KeyFile = a.flags.keyFile
	}

	switch {
	case a.flags.passwordEnc != "":
		creds.PasswordEnc = a.flags.passwordEnc
	case !a.flags.noKeyring && a.cachedPassword(name, db, &creds):
	case a.flags.noPassword:
		if creds.KeyFile == "" {
			return nil, errors.New("--no-password requires a key file")
		}
	default:
		password, err := readPassword(fmt.Sprintf("password for %s: ", db.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		creds.Password = string(password)
		crypto.CleanupBytes(password)
	}
	return a.driver.Open(db.Path, creds), nil
}

func (a *app) cachedPassword(name string, db config.Database, creds *kpscript.Credentials) bool {
	passwordEnc, err := loadCached(db.Path)
	if errors.Is(err, keyring.ErrNotFound) {
		if db.UseKeyring {
			ui.PrintWarning("!", fmt.Sprintf("no encrypted password cached for %s, run 'kpscript encrypt-password --store %s'", db.Path, name))
		}
		return false
	}
	if err != nil {
		log.Warnf("failed to load cached password: %v", err)
		return false
	}
	creds.PasswordEnc = passwordEnc
	return true
}
