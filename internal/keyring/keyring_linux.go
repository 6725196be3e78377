//go:build linux
// +build linux

package keyring

import (
	"fmt"

	"github.com/carved4/go-kpscript/internal/log"
	"github.com/jsipprell/keyctl"
)

// Store caches the encrypted password of database in the session keyring.
// It lives until the session ends or the machine reboots.
func Store(database, passwordEnc string) error {
	name, err := keyName(database)
	if err != nil {
		return err
	}
	ring, err := keyctl.SessionKeyring()
	if err != nil {
		log.Debugf("failed to access session keyring: %v", err)
		return fmt.Errorf("failed to access kernel keyring: %w", err)
	}

	ring.SetDefaultTimeout(0) // no timeout

	if _, err := ring.Add(name, []byte(passwordEnc)); err != nil {
		return fmt.Errorf("failed to store encrypted password: %w", err)
	}
	return nil
}

func Load(database string) (string, error) {
	name, err := keyName(database)
	if err != nil {
		return "", err
	}
	ring, err := keyctl.SessionKeyring()
	if err != nil {
		return "", fmt.Errorf("failed to access kernel keyring: %w", err)
	}

	key, err := ring.Search(name)
	if err != nil {
		log.Debugf("%s not found in kernel keyring: %v", name, err)
		return "", fmt.Errorf("%w for %s", ErrNotFound, database)
	}
	value, err := key.Get()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve encrypted password: %w", err)
	}
	return string(value), nil
}

// Delete removes the cached password. Deleting a missing entry is not an error.
func Delete(database string) error {
	name, err := keyName(database)
	if err != nil {
		return err
	}
	ring, err := keyctl.SessionKeyring()
	if err != nil {
		return fmt.Errorf("failed to access kernel keyring: %w", err)
	}

	if key, err := ring.Search(name); err == nil {
		if err := key.Unlink(); err != nil {
			return fmt.Errorf("failed to delete encrypted password: %w", err)
		}
	}
	return nil
}

func keyName(database string) (string, error) {
	acct, err := account(database)
	if err != nil {
		return "", err
	}
	return service() + ":" + acct, nil
}
