package crypto_util

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// GCMNonceSize AES-GCM 标准 nonce 长度
const GCMNonceSize = 12

// SealAESGCM 使用调用方提供的 nonce 加密, nonce 需与密文分开保存。
// 密钥必须是 16、24 或 32 字节长，分别对应 AES-128、AES-192 或 AES-256。
func SealAESGCM(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// OpenAESGCM 解密并校验认证标签
func OpenAESGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(nonce) != GCMNonceSize {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
