package crypto_util

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/crypto/blake2b"
)

// Blake2b256 计算 32 字节 Blake2b 哈希 (Substrate 的 blake2_256)。
func Blake2b256(data ...[]byte) [32]byte {
	h, _ := blake2b.New256(nil) // 无 key 时不会出错
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b512 计算 64 字节 Blake2b 哈希，SS58 校验和使用。
func Blake2b512(data ...[]byte) [64]byte {
	h, _ := blake2b.New512(nil)
	for _, d := range data {
		h.Write(d)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b128 计算 16 字节 Blake2b 哈希。
func Blake2b128(data []byte) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return h.Sum(nil)
}

// Blake2b128Concat 存储键哈希器: blake2_128(data) ‖ data
func Blake2b128Concat(data []byte) []byte {
	return append(Blake2b128(data), data...)
}

// Twox128 存储前缀哈希器: xxhash64(seed 0) ‖ xxhash64(seed 1)，均为小端序。
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[:8], xxhash.Checksum64S(data, 0))
	binary.LittleEndian.PutUint64(out[8:], xxhash.Checksum64S(data, 1))
	return out
}
