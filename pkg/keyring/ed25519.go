package keyring

import (
	"crypto/ed25519"

	"dot-wallet/pkg/ss58"
)

type ed25519Pair struct {
	seed [seedLength]byte
	priv ed25519.PrivateKey
	pub  ss58.PublicKey
}

func newEd25519Pair(seed [seedLength]byte) *ed25519Pair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	kp := &ed25519Pair{seed: seed, priv: priv}
	copy(kp.pub[:], priv.Public().(ed25519.PublicKey))
	return kp
}

func (k *ed25519Pair) Scheme() Scheme {
	return Ed25519
}

func (k *ed25519Pair) PublicKey() ss58.PublicKey {
	return k.pub
}

func (k *ed25519Pair) RawPublicKey() []byte {
	return append([]byte(nil), k.pub[:]...)
}

func (k *ed25519Pair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, msg), nil
}

func (k *ed25519Pair) Verify(msg, sig []byte) bool {
	return ed25519.Verify(k.pub[:], msg, sig)
}

func (k *ed25519Pair) Derive(path string) (Keypair, error) {
	if path == "" {
		return k, nil
	}
	return derivePath(Ed25519, "Ed25519HDKD", k.seed, path)
}

func (k *ed25519Pair) Address(format ss58.Format) (string, error) {
	return ss58.Encode(format, k.pub)
}
