package safe_random

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	b, err := Bytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	// 极不可能全为零
	assert.NotEqual(t, make([]byte, 32), b)

	other, err := Bytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, b, other)
}

func TestHex(t *testing.T) {
	s, err := Hex(16)
	require.NoError(t, err)

	decoded, err := hex.DecodeString(s)
	require.NoError(t, err)
	assert.Len(t, decoded, 16)
}

func TestShortReader(t *testing.T) {
	orig := Reader
	t.Cleanup(func() { Reader = orig })

	Reader = bytes.NewReader([]byte{1, 2, 3})
	_, err := Bytes(4)
	assert.Error(t, err)

	Reader = bytes.NewReader([]byte{1, 2, 3, 4})
	b, err := Bytes(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)
}
