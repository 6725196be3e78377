package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{EnvConfig, EnvCommand, EnvDebug, EnvTimeout, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
kpscript: mono /opt/keepass/KPScript.exe
debug: true
timeout: 30s
seed_database: /opt/keepass/pass_encryptor.kdbx
log_level: debug
log_encoding: json
databases:
  work:
    path: /home/me/work.kdbx
    key_file: /home/me/work.key
    use_keyring: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		KPScript:     "mono /opt/keepass/KPScript.exe",
		Debug:        true,
		Timeout:      30 * time.Second,
		SeedDatabase: "/opt/keepass/pass_encryptor.kdbx",
		LogLevel:     "debug",
		LogEncoding:  "json",
		Databases: map[string]Database{
			"work": {Path: "/home/me/work.kdbx", KeyFile: "/home/me/work.key", UseKeyring: true},
		},
	}, cfg)
}

func TestLoadFromEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfig, writeConfig(t, "kpscript: /usr/bin/kpscript\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/kpscript", cfg.KPScript)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "kpscript: [unclosed\n"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCommand, "/other/KPScript.exe")
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvLogLevel, "info")

	cfg, err := Load(writeConfig(t, "kpscript: /usr/bin/kpscript\ntimeout: 1m\n"))
	require.NoError(t, err)
	assert.Equal(t, "/other/KPScript.exe", cfg.KPScript)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestInvalidEnv(t *testing.T) {
	tests := map[string]string{
		EnvDebug:   "maybe",
		EnvTimeout: "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no command", func(c *Config) { c.KPScript = "" }, "kpscript command is not set"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout must not be negative"},
		{"database without path", func(c *Config) { c.Databases["work"] = Database{KeyFile: "k"} }, "database 'work' has no path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestDatabase(t *testing.T) {
	cfg := Default()
	cfg.Databases["work"] = Database{Path: "/home/me/work.kdbx", KeyFile: "/home/me/work.key"}

	assert.Equal(t, Database{Path: "/home/me/work.kdbx", KeyFile: "/home/me/work.key"}, cfg.Database("work"))
	assert.Equal(t, Database{Path: "other.kdbx"}, cfg.Database("other.kdbx"))
}
