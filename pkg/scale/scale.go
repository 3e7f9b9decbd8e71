// Package scale adapts the SCALE codec from go-substrate-rpc-client to the
// byte-slice helpers the extrinsic, keyring and multisig code work with:
// compact integers, fixed-width little-endian integers and length-prefixed
// byte strings.
package scale

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	codec "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

var (
	ErrNegative  = errors.New("scale: negative value")
	ErrTooLarge  = errors.New("scale: value exceeds 2^536-1")
	ErrShortRead = errors.New("scale: unexpected end of input")
)

// 大整数模式最多 67 字节
const maxCompactBytes = 67

// EncodeCompact encodes n in SCALE compact form.
func EncodeCompact(n *big.Int) ([]byte, error) {
	if n.Sign() < 0 {
		return nil, ErrNegative
	}
	if len(n.Bytes()) > maxCompactBytes {
		return nil, ErrTooLarge
	}

	var buf bytes.Buffer
	if err := codec.NewEncoder(&buf).EncodeUintCompact(*n); err != nil {
		return nil, fmt.Errorf("scale: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeCompactUint encodes v in SCALE compact form.
func EncodeCompactUint(v uint64) []byte {
	out, err := EncodeCompact(new(big.Int).SetUint64(v))
	if err != nil {
		// uint64 总在可编码范围内
		panic(err)
	}
	return out
}

// DecodeCompact reads a compact integer from the head of b and returns the
// value and the number of bytes consumed.
func DecodeCompact(b []byte) (*big.Int, int, error) {
	r := bytes.NewReader(b)
	v, err := codec.NewDecoder(r).DecodeUintCompact()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	return v, len(b) - r.Len(), nil
}

// DecodeCompactUint is DecodeCompact restricted to values that fit in uint64.
func DecodeCompactUint(b []byte) (uint64, int, error) {
	v, n, err := DecodeCompact(b)
	if err != nil {
		return 0, 0, err
	}
	if !v.IsUint64() {
		return 0, 0, fmt.Errorf("scale: compact value %s overflows uint64", v)
	}
	return v.Uint64(), n, nil
}

// EncodeBytes encodes b as compact(len) ‖ b.
func EncodeBytes(b []byte) []byte {
	return append(EncodeCompactUint(uint64(len(b))), b...)
}

// EncodeString encodes s as a SCALE string (same layout as bytes).
func EncodeString(s string) []byte {
	return EncodeBytes([]byte(s))
}

// EncodeU16 encodes v as 2 little-endian bytes.
func EncodeU16(v uint16) []byte {
	return encode(v)
}

// EncodeU32 encodes v as 4 little-endian bytes.
func EncodeU32(v uint32) []byte {
	return encode(v)
}

// EncodeU64 encodes v as 8 little-endian bytes.
func EncodeU64(v uint64) []byte {
	return encode(v)
}

// DecodeU128 reads a 16-byte little-endian unsigned integer.
func DecodeU128(b []byte) (*big.Int, error) {
	if len(b) < 16 {
		return nil, ErrShortRead
	}
	var le [16]byte
	if err := codec.NewDecoder(bytes.NewReader(b)).Decode(&le); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	be := make([]byte, len(le))
	for i := range le {
		be[len(le)-1-i] = le[i]
	}
	return new(big.Int).SetBytes(be), nil
}

func encode(v interface{}) []byte {
	var buf bytes.Buffer
	if err := codec.NewEncoder(&buf).Encode(v); err != nil {
		// 只编码定长整数, 写 bytes.Buffer 不会失败
		panic(err)
	}
	return buf.Bytes()
}
