package ss58

import (
	"crypto/rand"
	"testing"

	"dot-wallet/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	polkadotAddr = "15PPkbBrUMoVfqzGTZyQNnCf6ekbrS5C1d62p4M9GR7oHrda"
	// //Alice (sr25519)
	aliceHex       = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceSubstrate = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	alicePolkadot  = "15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(polkadotAddr))
	assert.False(t, IsValid(polkadotAddr+"ab"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("0x1234"))
}

func TestKnownAddresses(t *testing.T) {
	pub, err := PublicKeyFromHex(aliceHex)
	require.NoError(t, err)

	addr, err := Encode(FormatSubstrate, pub)
	require.NoError(t, err)
	assert.Equal(t, aliceSubstrate, addr)

	addr, err = Encode(FormatPolkadot, pub)
	require.NoError(t, err)
	assert.Equal(t, alicePolkadot, addr)

	format, decoded, err := Decode(alicePolkadot)
	require.NoError(t, err)
	assert.Equal(t, FormatPolkadot, format)
	assert.Equal(t, pub, decoded)
	assert.Equal(t, aliceHex, decoded.Hex())
}

func TestRoundTrip(t *testing.T) {
	for f := Format(0); f <= MaxSimpleFormat; f++ {
		var pub PublicKey
		_, err := rand.Read(pub[:])
		require.NoError(t, err)

		addr, err := Encode(f, pub)
		require.NoError(t, err)

		gotFormat, gotPub, err := Decode(addr)
		require.NoError(t, err, "format %d", f)
		assert.Equal(t, f, gotFormat)
		assert.Equal(t, pub, gotPub)
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	_, err := Encode(64, PublicKey{})
	assert.ErrorIs(t, err, errno.ErrUnsupportedFormat)
}

func TestDecodeSingleCharFlip(t *testing.T) {
	const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	failures := 0
	total := 0
	for i := 0; i < len(polkadotAddr); i++ {
		for _, c := range []byte{'0', 'O', 'I', 'l'} {
			// non-alphabet substitutions always fail
			flipped := []byte(polkadotAddr)
			flipped[i] = c
			_, _, err := Decode(string(flipped))
			assert.ErrorIs(t, err, errno.ErrInvalidAddress)
		}

		flipped := []byte(polkadotAddr)
		for j := 0; j < len(alphabet); j++ {
			if alphabet[j] != polkadotAddr[i] {
				flipped[i] = alphabet[j]
				break
			}
		}
		total++
		if _, _, err := Decode(string(flipped)); err != nil {
			assert.ErrorIs(t, err, errno.ErrInvalidAddress)
			failures++
		}
	}
	// 2-byte checksum: a random collision is 1/65536 per flip
	assert.GreaterOrEqual(t, failures, total-1)
}

func TestDecodeExpect(t *testing.T) {
	_, err := DecodeExpect(alicePolkadot, FormatPolkadot)
	assert.NoError(t, err)

	_, err = DecodeExpect(alicePolkadot, FormatKusama)
	assert.ErrorIs(t, err, errno.ErrNetworkMismatch)

	_, err = DecodeExpect("not-an-address", FormatKusama)
	assert.ErrorIs(t, err, errno.ErrInvalidAddress)
}

func TestReformat(t *testing.T) {
	addr, err := Reformat(alicePolkadot, FormatSubstrate)
	require.NoError(t, err)
	assert.Equal(t, aliceSubstrate, addr)

	_, err = Reformat(alicePolkadot, 100)
	assert.ErrorIs(t, err, errno.ErrUnsupportedFormat)
}

func TestPublicKeyFromHex(t *testing.T) {
	_, err := PublicKeyFromHex("0x1234")
	assert.ErrorIs(t, err, errno.ErrInvalidAddress)

	_, err = PublicKeyFromHex("zz")
	assert.ErrorIs(t, err, errno.ErrInvalidAddress)
}
