package wallet

import (
	"path/filepath"
	"testing"

	"dot-wallet/pkg/config"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/keystore"
	"dot-wallet/pkg/ss58"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRootFromMnemonic(t *testing.T) {
	root, err := LoadRoot(config.WalletConfig{Mnemonic: keyring.DevPhrase, Scheme: "ed25519"})
	require.NoError(t, err)

	dev, err := keyring.NewProvider(keyring.Ed25519).FromURI("")
	require.NoError(t, err)
	assert.Equal(t, dev.PublicKey(), root.PublicKey())

	// 密码改变根密钥
	withPw, err := LoadRoot(config.WalletConfig{Mnemonic: keyring.DevPhrase, Password: "pw"})
	require.NoError(t, err)
	assert.NotEqual(t, root.PublicKey(), withPw.PublicKey())
}

func TestLoadRootFromKeystore(t *testing.T) {
	dev, err := keyring.NewProvider(keyring.Ed25519).FromURI("")
	require.NoError(t, err)
	addr, err := dev.Address(ss58.FormatSubstrate)
	require.NoError(t, err)

	kf, err := keystore.Encrypt(keyring.DevPhrase, "123456", addr, keystore.Meta{Scheme: "ed25519", Format: 42}, keystore.LightScrypt)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, kf.SaveToFile(path))

	cfg := config.WalletConfig{
		Keystore:         path,
		KeystorePassword: "123456",
		Mnemonic:         "ignored when keystore is set",
		Scheme:           "ed25519",
	}
	root, err := LoadRoot(cfg)
	require.NoError(t, err)
	assert.Equal(t, dev.PublicKey(), root.PublicKey())

	cfg.KeystorePassword = "wrong"
	_, err = LoadRoot(cfg)
	assert.ErrorIs(t, err, keystore.ErrWrongPassword)

	cfg.KeystorePassword = "123456"
	cfg.Scheme = "ecdsa"
	_, err = LoadRoot(cfg)
	assert.ErrorIs(t, err, errno.ErrUnsupportedScheme)
}

func TestLoadRootMissing(t *testing.T) {
	_, err := LoadRoot(config.WalletConfig{})
	assert.ErrorIs(t, err, errno.ErrInvalidMnemonic)

	_, err = LoadRoot(config.WalletConfig{Mnemonic: keyring.DevPhrase, Scheme: "sr25519"})
	assert.ErrorIs(t, err, errno.ErrUnsupportedScheme)
}
