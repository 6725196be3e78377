package keyring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	relative, err := account("db/../my_db.kdbx")
	require.NoError(t, err)
	absolute, err := account(filepath.Join(wd, "my_db.kdbx"))
	require.NoError(t, err)

	assert.Equal(t, "pw-enc:"+filepath.Join(wd, "my_db.kdbx"), relative)
	assert.Equal(t, relative, absolute)
}

func TestAccountEmpty(t *testing.T) {
	_, err := account("")
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	assert.Equal(t, "kpscript", service())
}
