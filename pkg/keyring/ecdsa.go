package keyring

import (
	"bytes"
	"fmt"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/ss58"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// SignCompact 头字节: 27 + 4 (压缩公钥) + recovery id
const compactHeader = 27 + 4

type ecdsaPair struct {
	seed       [seedLength]byte
	priv       *btcec.PrivateKey
	compressed []byte
	account    ss58.PublicKey
}

func newEcdsaPair(seed [seedLength]byte) (*ecdsaPair, error) {
	priv, pub := btcec.PrivKeyFromBytes(seed[:])
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero secp256k1 scalar", errno.ErrInvalidSeed)
	}
	compressed := pub.SerializeCompressed()
	return &ecdsaPair{
		seed:       seed,
		priv:       priv,
		compressed: compressed,
		account:    crypto_util.Blake2b256(compressed),
	}, nil
}

func (k *ecdsaPair) Scheme() Scheme {
	return Ecdsa
}

func (k *ecdsaPair) PublicKey() ss58.PublicKey {
	return k.account
}

func (k *ecdsaPair) RawPublicKey() []byte {
	return append([]byte(nil), k.compressed...)
}

// Sign 对 blake2b-256(msg) 做可恢复签名, 输出 r ‖ s ‖ v
func (k *ecdsaPair) Sign(msg []byte) ([]byte, error) {
	hash := crypto_util.Blake2b256(msg)
	compact := ecdsa.SignCompact(k.priv, hash[:], true)

	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0] - compactHeader
	return sig, nil
}

func (k *ecdsaPair) Verify(msg, sig []byte) bool {
	if len(sig) != 65 || sig[64] > 3 {
		return false
	}
	compact := make([]byte, 65)
	compact[0] = sig[64] + compactHeader
	copy(compact[1:], sig[:64])

	hash := crypto_util.Blake2b256(msg)
	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return false
	}
	return bytes.Equal(pub.SerializeCompressed(), k.compressed)
}

func (k *ecdsaPair) Derive(path string) (Keypair, error) {
	if path == "" {
		return k, nil
	}
	return derivePath(Ecdsa, "Secp256k1HDKD", k.seed, path)
}

func (k *ecdsaPair) Address(format ss58.Format) (string, error) {
	return ss58.Encode(format, k.account)
}
