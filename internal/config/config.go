package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "KPSCRIPT_CONFIG"
	EnvCommand  = "KPSCRIPT_CMD"
	EnvDebug    = "KPSCRIPT_DEBUG"
	EnvTimeout  = "KPSCRIPT_TIMEOUT"
	EnvLogLevel = "LOG_LEVEL"
)

// Database is a named database of the config file.
type Database struct {
	Path    string `yaml:"path"`
	KeyFile string `yaml:"key_file,omitempty"`
	// UseKeyring opens the database with the encrypted password cached by
	// `kpscript encrypt-password --store`.
	UseKeyring bool `yaml:"use_keyring,omitempty"`
}

type Config struct {
	// KPScript is the command prefix, e.g. "mono /opt/keepass/KPScript.exe".
	KPScript     string              `yaml:"kpscript"`
	Debug        bool                `yaml:"debug,omitempty"`
	Timeout      time.Duration       `yaml:"timeout,omitempty"`
	SeedDatabase string              `yaml:"seed_database,omitempty"`
	LogLevel     string              `yaml:"log_level,omitempty"`
	LogEncoding  string              `yaml:"log_encoding,omitempty"`
	Databases    map[string]Database `yaml:"databases,omitempty"`
}

func Default() *Config {
	cmd := "mono KPScript.exe"
	if runtime.GOOS == "windows" {
		cmd = "KPScript.exe"
	}
	return &Config{
		KPScript:  cmd,
		LogLevel:  "warn",
		Databases: map[string]Database{},
	}
}

// Path returns $KPSCRIPT_CONFIG, or config.yaml in the user config directory.
func Path() (string, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "kpscript", "config.yaml"), nil
}

// Load reads the config file at path, or at Path() when path is empty, then
// applies the environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if cfg.Databases == nil {
		cfg.Databases = map[string]Database{}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if cmd := os.Getenv(EnvCommand); cmd != "" {
		c.KPScript = cmd
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		c.Debug = debug
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = timeout
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	return nil
}

func (c *Config) Validate() error {
	if c.KPScript == "" {
		return errors.New("kpscript command is not set")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	for name, db := range c.Databases {
		if db.Path == "" {
			return fmt.Errorf("database '%s' has no path", name)
		}
	}
	return nil
}

// Database resolves a configured database name. Anything else is taken as a
// path to a database file.
func (c *Config) Database(nameOrPath string) Database {
	if db, ok := c.Databases[nameOrPath]; ok {
		return db
	}
	return Database{Path: nameOrPath}
}
