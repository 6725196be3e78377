package kpscript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carved4/go-kpscript/internal/secret"
	"github.com/carved4/go-kpscript/internal/selector"
	"github.com/google/uuid"
)

const (
	seedDatabaseName = "pass_encryptor.kdbx"
	// seedPassword opens the seed database, which has a single entry titled
	// the same way.
	seedPassword = "pass_encryptor"
	seedTitle    = "pass_encryptor"
)

// EncryptPassword turns password into a value accepted by -pw-enc, so that
// databases can be opened without storing the real password.
//
// KPScript does the encryption itself: the password is stored in the seed
// database entry, whose URL field references it with {PASSWORD_ENC}, and the
// URL is read back with placeholders compiled. The seed database is copied to
// a temporary file first and the copy is always removed.
func (d *Driver) EncryptPassword(ctx context.Context, password *secret.Value) (encrypted string, err error) {
	tmpDatabase := filepath.Join(os.TempDir(), fmt.Sprintf("kpscript-%s.tmp.kdbx", uuid.NewString()))
	if err := copyFile(d.seedDatabase, tmpDatabase); err != nil {
		return "", fmt.Errorf("failed to copy seed database: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(tmpDatabase); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove temporary database: %w", rmErr)
		}
	}()

	seed := d.Open(tmpDatabase, Credentials{Password: seedPassword})
	defer seed.Close()

	sel := selector.New().Field("Title", seedTitle)
	err = seed.EditEntries(ctx, sel, EditOptions{
		SecretFields: []SecretField{{Name: "Password", Value: password}},
	})
	if err != nil {
		return "", err
	}
	values, err := seed.EntriesString(ctx, sel, "URL", EntriesOptions{Spr: true})
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("%w in seed database %s", ErrNoEntry, d.seedDatabase)
	}
	return values[0], nil
}
