// Package ss58 encodes and decodes Substrate SS58 addresses for 32-byte
// account keys with a single-byte network format.
package ss58

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/errno"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Format 网络地址格式 (SS58 prefix)
type Format uint16

const (
	FormatPolkadot  Format = 0
	FormatKusama    Format = 2
	FormatSubstrate Format = 42

	// MaxSimpleFormat 单字节前缀可表示的最大格式; >= 64 需要双字节前缀, 不支持
	MaxSimpleFormat Format = 63
)

const (
	keyLength      = 32
	checksumLength = 2
	addressLength  = 1 + keyLength + checksumLength
)

var checksumPrefix = []byte("SS58PRE")

// PublicKey 32 字节账户公钥 (AccountId)
type PublicKey [keyLength]byte

func (k PublicKey) Hex() string {
	return "0x" + hex.EncodeToString(k[:])
}

func (k PublicKey) Bytes() []byte {
	return k[:]
}

// Compare 按字节序比较, 用于多签成员排序
func (k PublicKey) Compare(other PublicKey) int {
	return bytes.Compare(k[:], other[:])
}

// PublicKeyFromBytes 从 32 字节切片构造公钥
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var k PublicKey
	if len(b) != keyLength {
		return k, fmt.Errorf("%w: public key must be %d bytes, got %d", errno.ErrInvalidAddress, keyLength, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// PublicKeyFromHex 解析 hex 公钥, 允许 0x 前缀
func PublicKeyFromHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", errno.ErrInvalidAddress, err)
	}
	return PublicKeyFromBytes(b)
}

// Encode 将公钥编码为指定网络格式的地址
// base58(prefix ‖ pubkey ‖ blake2b-512("SS58PRE" ‖ prefix ‖ pubkey)[:2])
func Encode(format Format, pub PublicKey) (string, error) {
	if format > MaxSimpleFormat {
		return "", fmt.Errorf("%w: %d", errno.ErrUnsupportedFormat, format)
	}

	buf := make([]byte, 0, addressLength)
	buf = append(buf, byte(format))
	buf = append(buf, pub[:]...)
	buf = append(buf, checksum(buf)...)
	return base58.Encode(buf), nil
}

// Decode 解析地址, 返回其中嵌入的网络格式与公钥
func Decode(address string) (Format, PublicKey, error) {
	var pub PublicKey

	raw := base58.Decode(address)
	// base58.Decode 遇到非法字符返回空切片
	if len(raw) != addressLength {
		return 0, pub, fmt.Errorf("%w: %q", errno.ErrInvalidAddress, address)
	}
	if Format(raw[0]) > MaxSimpleFormat {
		return 0, pub, fmt.Errorf("%w: unsupported prefix byte %d", errno.ErrInvalidAddress, raw[0])
	}

	body := raw[:1+keyLength]
	if !bytes.Equal(checksum(body), raw[1+keyLength:]) {
		return 0, pub, fmt.Errorf("%w: checksum mismatch", errno.ErrInvalidAddress)
	}

	copy(pub[:], raw[1:1+keyLength])
	return Format(raw[0]), pub, nil
}

// DecodeExpect 解析地址并校验网络格式
func DecodeExpect(address string, expected Format) (PublicKey, error) {
	format, pub, err := Decode(address)
	if err != nil {
		return pub, err
	}
	if format != expected {
		return PublicKey{}, fmt.Errorf("%w: expected %d, got %d", errno.ErrNetworkMismatch, expected, format)
	}
	return pub, nil
}

// IsValid 地址能否成功解析
func IsValid(address string) bool {
	_, _, err := Decode(address)
	return err == nil
}

// Reformat 把同一个公钥转换成另一个网络的地址
func Reformat(address string, format Format) (string, error) {
	_, pub, err := Decode(address)
	if err != nil {
		return "", err
	}
	return Encode(format, pub)
}

func checksum(body []byte) []byte {
	h := crypto_util.Blake2b512(checksumPrefix, body)
	return h[:checksumLength]
}
