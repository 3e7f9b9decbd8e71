// Package keystore encrypts a wallet secret (mnemonic or secret URI) into a
// JSON file protected by a password.
package keystore

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/safe_random"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

const (
	version    = 3
	cipherName = "aes-256-gcm"
	kdfName    = "scrypt"
	dkLen      = 32
)

var (
	ErrWrongPassword = errors.New("invalid password or corrupted data (MAC mismatch)")
	ErrUnsupported   = errors.New("unsupported keystore")
)

// ScryptParams 派生参数, Standard 用于生产, Light 用于测试与低配设备
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

var (
	StandardScrypt = ScryptParams{N: 1 << 18, R: 8, P: 1}
	LightScrypt    = ScryptParams{N: 1 << 12, R: 8, P: 6}
)

// KeyFile 落盘格式; address 与 meta 明文保存, 便于不解密就能识别账户
type KeyFile struct {
	Address string     `json:"address"`
	Meta    Meta       `json:"meta"`
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`
	Version int        `json:"version"`
}

type Meta struct {
	Name      string `json:"name,omitempty"`
	Scheme    string `json:"scheme"`
	Format    uint16 `json:"format"`
	CreatedAt int64  `json:"createdAt"`
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`
	CipherText   string       `json:"ciphertext"`
	CipherParams CipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

type CipherParams struct {
	IV string `json:"iv"`
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Salt  string `json:"salt"`
}

// Encrypt 用密码加密 secret
func Encrypt(secret, password, address string, meta Meta, params ScryptParams) (*KeyFile, error) {
	// 1. 随机 salt
	salt, err := safe_random.Bytes(32)
	if err != nil {
		return nil, err
	}

	// 2. scrypt 派生密钥
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, dkLen)
	if err != nil {
		return nil, err
	}

	// 3. AES-256-GCM 加密
	nonce, err := safe_random.Bytes(crypto_util.GCMNonceSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := crypto_util.SealAESGCM(derivedKey, nonce, []byte(secret))
	if err != nil {
		return nil, err
	}

	// 4. MAC = blake2b-256(derivedKey[16:] || ciphertext)
	mac := computeMAC(derivedKey, ciphertext)

	if meta.CreatedAt == 0 {
		meta.CreatedAt = time.Now().Unix()
	}
	return &KeyFile{
		Address: address,
		Meta:    meta,
		Version: version,
		Id:      uuid.NewString(),
		Crypto: CryptoJSON{
			Cipher:       cipherName,
			CipherText:   hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{IV: hex.EncodeToString(nonce)},
			KDF:          kdfName,
			KDFParams: KDFParams{
				DKLen: dkLen,
				N:     params.N,
				R:     params.R,
				P:     params.P,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac[:]),
		},
	}, nil
}

// Decrypt 解密得到 secret, 密码错误返回 ErrWrongPassword
func Decrypt(k *KeyFile, password string) (string, error) {
	if k.Version != version || k.Crypto.Cipher != cipherName || k.Crypto.KDF != kdfName {
		return "", fmt.Errorf("%w: version %d, cipher %q, kdf %q", ErrUnsupported, k.Version, k.Crypto.Cipher, k.Crypto.KDF)
	}

	// 1. 解析 hex 参数
	salt, err := hex.DecodeString(k.Crypto.KDFParams.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	nonce, err := hex.DecodeString(k.Crypto.CipherParams.IV)
	if err != nil {
		return "", fmt.Errorf("invalid iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(k.Crypto.CipherText)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %w", err)
	}
	mac, err := hex.DecodeString(k.Crypto.MAC)
	if err != nil {
		return "", fmt.Errorf("invalid mac: %w", err)
	}

	// 2. 重新派生密钥
	p := k.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return "", err
	}

	// 3. 校验 MAC
	expected := computeMAC(derivedKey, ciphertext)
	if subtle.ConstantTimeCompare(mac, expected[:]) != 1 {
		return "", ErrWrongPassword
	}

	// 4. 解密
	plaintext, err := crypto_util.OpenAESGCM(derivedKey, nonce, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// SaveToFile 0600 权限写入
func (k *KeyFile) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

func LoadFromFile(filename string) (*KeyFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k KeyFile
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse keystore %s: %w", filename, err)
	}
	return &k, nil
}

func computeMAC(derivedKey, ciphertext []byte) [32]byte {
	return crypto_util.Blake2b256(derivedKey[16:], ciphertext)
}
