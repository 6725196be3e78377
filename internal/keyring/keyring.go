// Package keyring caches encrypted database passwords, the values accepted
// by KPScript's -pw-enc flag, so a database can be opened without a prompt.
// Plain passwords are never stored.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrNotFound = errors.New("no encrypted password cached")

func service() string {
	service := "kpscript"

	if runtime.GOOS == "linux" {
		if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
			service = "kpscript-" + sudoUser
		}
	}

	return service
}

// account is the key a database is cached under: its absolute, cleaned path,
// so that relative and absolute spellings share one entry.
func account(database string) (string, error) {
	if database == "" {
		return "", errors.New("database path is empty")
	}
	abs, err := filepath.Abs(database)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return "pw-enc:" + abs, nil
}

func formatKeyringError(err error) error {
	if err == nil {
		return nil
	}

	if runtime.GOOS == "linux" && strings.Contains(err.Error(), "failed to unlock correct collection") {
		return fmt.Errorf("keyring error: %w\n\nlinux troubleshooting:\n  1. ensure you're logged into a desktop session (gnome/kde/xfce)\n  2. install gnome-keyring: sudo apt install gnome-keyring\n  3. unlock your keyring: run 'seahorse' and create/unlock the default keyring", err)
	}

	return fmt.Errorf("keyring error: %w", err)
}
