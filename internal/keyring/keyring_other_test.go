//go:build !linux
// +build !linux

package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestRoundTrip(t *testing.T) {
	keyring.MockInit()

	_, err := Load("/path/to/my_db.kdbx")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Store("/path/to/my_db.kdbx", "MyEncryptedPassword"))
	value, err := Load("/path/to/my_db.kdbx")
	require.NoError(t, err)
	assert.Equal(t, "MyEncryptedPassword", value)

	require.NoError(t, Delete("/path/to/my_db.kdbx"))
	_, err = Load("/path/to/my_db.kdbx")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissing(t *testing.T) {
	keyring.MockInit()
	assert.NoError(t, Delete("/path/to/other.kdbx"))
}
