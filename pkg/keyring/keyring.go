// Package keyring produces Substrate keypairs from mnemonics, seeds and
// secret URIs, and derives child keypairs along junction paths.
//
// Two schemes are supported: ed25519 and ecdsa (secp256k1). Keypairs are
// immutable and safe for concurrent use; signing never exposes the secret.
package keyring

import (
	"encoding/hex"
	"fmt"
	"strings"

	"dot-wallet/pkg/bip39"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/ss58"
)

// DevPhrase 开发链公开助记词, URI 省略助记词时使用 (例如 "//Alice")
const DevPhrase = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

const seedLength = 32

// Scheme 签名算法
type Scheme string

const (
	Ed25519 Scheme = "ed25519"
	Ecdsa   Scheme = "ecdsa"
)

// ParseScheme 解析配置中的算法名
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(s) {
	case "", string(Ed25519):
		return Ed25519, nil
	case string(Ecdsa), "secp256k1":
		return Ecdsa, nil
	default:
		return "", fmt.Errorf("%w: %s", errno.ErrUnsupportedScheme, s)
	}
}

// SignatureVariant MultiSignature 枚举下标
func (s Scheme) SignatureVariant() byte {
	switch s {
	case Ecdsa:
		return 2
	default:
		return 0
	}
}

// SignatureLength 签名字节数
func (s Scheme) SignatureLength() int {
	switch s {
	case Ecdsa:
		return 65
	default:
		return 64
	}
}

// Keypair 绑定一个账户公钥的签名能力
type Keypair interface {
	Scheme() Scheme
	// PublicKey 32 字节账户 ID (ecdsa 为压缩公钥的 blake2b-256)
	PublicKey() ss58.PublicKey
	// RawPublicKey 算法原始公钥
	RawPublicKey() []byte
	Sign(msg []byte) ([]byte, error)
	Verify(msg, sig []byte) bool
	Derive(path string) (Keypair, error)
	Address(format ss58.Format) (string, error)
}

// Provider 按固定算法生成 Keypair
type Provider struct {
	scheme   Scheme
	mnemonic *bip39.MnemonicService
}

func NewProvider(scheme Scheme) *Provider {
	return &Provider{
		scheme:   scheme,
		mnemonic: bip39.NewMnemonicService(),
	}
}

func (p *Provider) Scheme() Scheme {
	return p.scheme
}

// FromSeed 32 字节种子直接生成密钥对
func (p *Provider) FromSeed(seed []byte) (Keypair, error) {
	if len(seed) != seedLength {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", errno.ErrInvalidSeed, seedLength, len(seed))
	}
	var s [seedLength]byte
	copy(s[:], seed)
	return newPair(p.scheme, s)
}

// FromMnemonic Substrate 方式: 熵 -> PBKDF2 -> 前 32 字节
func (p *Provider) FromMnemonic(mnemonic, password string) (Keypair, error) {
	seed, err := p.mnemonic.MiniSecret(mnemonic, password)
	if err != nil {
		return nil, err
	}
	return p.FromSeed(seed)
}

// FromURI 解析 "<mnemonic|0xseed>[//hard][/soft][///password]"
func (p *Provider) FromURI(uri string) (Keypair, error) {
	secret, password := uri, ""
	if i := strings.Index(uri, "///"); i >= 0 {
		secret, password = uri[:i], uri[i+3:]
	}

	phrase, path := secret, ""
	if i := strings.IndexByte(secret, '/'); i >= 0 {
		phrase, path = secret[:i], secret[i:]
	}
	phrase = strings.TrimSpace(phrase)

	var (
		kp  Keypair
		err error
	)
	switch {
	case phrase == "":
		kp, err = p.FromMnemonic(DevPhrase, password)
	case strings.HasPrefix(phrase, "0x"):
		seed, decErr := hex.DecodeString(phrase[2:])
		if decErr != nil {
			return nil, fmt.Errorf("%w: %v", errno.ErrInvalidSeed, decErr)
		}
		kp, err = p.FromSeed(seed)
	default:
		kp, err = p.FromMnemonic(phrase, password)
	}
	if err != nil {
		return nil, err
	}
	return kp.Derive(path)
}

// FromSeedPath 旧版派生方式: (seed+path) 右侧补空格到 32 字节作为原始种子
func (p *Provider) FromSeedPath(seed, path string) (Keypair, error) {
	raw := seed + path
	if len(raw) > seedLength {
		return nil, fmt.Errorf("%w: seed and path exceed %d bytes", errno.ErrInvalidSeed, seedLength)
	}
	raw += strings.Repeat(" ", seedLength-len(raw))
	return p.FromSeed([]byte(raw))
}

func newPair(scheme Scheme, seed [seedLength]byte) (Keypair, error) {
	switch scheme {
	case Ed25519:
		return newEd25519Pair(seed), nil
	case Ecdsa:
		return newEcdsaPair(seed)
	default:
		return nil, fmt.Errorf("%w: %s", errno.ErrUnsupportedScheme, scheme)
	}
}

// derivePath 依次应用每个 junction; 软派生对这两种算法不可用
func derivePath(scheme Scheme, domain string, seed [seedLength]byte, path string) (Keypair, error) {
	junctions, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	for _, j := range junctions {
		if !j.Hard {
			return nil, fmt.Errorf("%w: soft junction %q not supported by %s", errno.ErrInvalidDerivationPath, j.Name, scheme)
		}
		seed = hardDerive(domain, seed, j.ChainCode)
	}
	return newPair(scheme, seed)
}
