package keystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mnemonic = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"
	alice    = "5FA9nQDVg267DEd8m1ZypXLBnvN7SFxYwV7ndqSYGiN9TTpu"
)

func TestEncryptDecrypt(t *testing.T) {
	k, err := Encrypt(mnemonic, "secure-password", alice, Meta{Name: "alice", Scheme: "ed25519", Format: 42}, LightScrypt)
	require.NoError(t, err)

	assert.Equal(t, "aes-256-gcm", k.Crypto.Cipher)
	assert.Equal(t, alice, k.Address)
	assert.NotZero(t, k.Meta.CreatedAt)
	assert.Len(t, k.Id, 36)
	assert.NotContains(t, k.Crypto.CipherText, mnemonic)

	plaintext, err := Decrypt(k, "secure-password")
	require.NoError(t, err)
	assert.Equal(t, mnemonic, plaintext)

	_, err = Decrypt(k, "wrong-password")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestDecryptTampered(t *testing.T) {
	k, err := Encrypt(mnemonic, "pw", alice, Meta{Scheme: "ed25519"}, LightScrypt)
	require.NoError(t, err)

	flipped := []byte(k.Crypto.CipherText)
	if flipped[0] == '0' {
		flipped[0] = '1'
	} else {
		flipped[0] = '0'
	}
	k.Crypto.CipherText = string(flipped)

	_, err = Decrypt(k, "pw")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestDecryptUnsupported(t *testing.T) {
	k, err := Encrypt(mnemonic, "pw", alice, Meta{}, LightScrypt)
	require.NoError(t, err)
	k.Crypto.KDF = "pbkdf2"

	_, err = Decrypt(k, "pw")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFileSaveLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "wallet.json")

	k, err := Encrypt("//Alice", "123456", alice, Meta{Scheme: "ed25519"}, LightScrypt)
	require.NoError(t, err)
	require.NoError(t, k.SaveToFile(filename))

	loaded, err := LoadFromFile(filename)
	require.NoError(t, err)
	assert.Equal(t, k.Id, loaded.Id)
	assert.Equal(t, k.Meta, loaded.Meta)

	decrypted, err := Decrypt(loaded, "123456")
	require.NoError(t, err)
	assert.Equal(t, "//Alice", decrypted)
}
