package keychain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastaa/internal/domain"
	"pastaa/internal/keychain"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	kc := keychain.New(t.TempDir())
	require.False(t, kc.Exists())

	in := keychain.Profile{Username: "alice", ServerSigningKey: "deadbeef"}
	require.NoError(t, kc.Save("hunter2", in))
	require.True(t, kc.Exists())

	out, err := kc.Load("hunter2")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_WrongPassphrase(t *testing.T) {
	kc := keychain.New(t.TempDir())
	require.NoError(t, kc.Save("correct", keychain.Profile{Username: "alice"}))

	_, err := kc.Load("incorrect")
	assert.True(t, errors.Is(err, domain.ErrDecryptionFailure))
}

func TestLoad_Missing(t *testing.T) {
	kc := keychain.New(t.TempDir())
	_, err := kc.Load("anything")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSave_EmptyPassphrase(t *testing.T) {
	kc := keychain.New(t.TempDir())
	err := kc.Save("", keychain.Profile{Username: "alice"})
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
}
