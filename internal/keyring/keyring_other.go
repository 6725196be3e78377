//go:build !linux
// +build !linux

package keyring

import (
	"errors"
	"fmt"

	"github.com/carved4/go-kpscript/internal/log"
	"github.com/zalando/go-keyring"
)

// Store caches the encrypted password of database in the OS credential store.
func Store(database, passwordEnc string) error {
	acct, err := account(database)
	if err != nil {
		return err
	}
	if err := keyring.Set(service(), acct, passwordEnc); err != nil {
		log.Debugf("failed to store encrypted password in keyring: %v", err)
		return formatKeyringError(err)
	}
	return nil
}

func Load(database string) (string, error) {
	acct, err := account(database)
	if err != nil {
		return "", err
	}
	value, err := keyring.Get(service(), acct)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for %s", ErrNotFound, database)
	}
	if err != nil {
		return "", formatKeyringError(err)
	}
	return value, nil
}

// Delete removes the cached password. Deleting a missing entry is not an error.
func Delete(database string) error {
	acct, err := account(database)
	if err != nil {
		return err
	}
	if err := keyring.Delete(service(), acct); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return formatKeyringError(err)
	}
	return nil
}
