package extrinsic

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/ss58"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) ss58.PublicKey {
	var k ss58.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

func TestTransferCallEncode(t *testing.T) {
	call := TransferCall{PalletIndex: 5, CallIndex: 3, Dest: key(0xaa), Amount: big.NewInt(12345)}
	enc, err := call.Encode()
	require.NoError(t, err)

	assert.Equal(t, []byte{5, 3, 0}, enc[:3])
	assert.Equal(t, key(0xaa).Bytes(), enc[3:35])
	// 12345 << 2 | 0b01 = 49381 = 0xc0e5
	assert.Equal(t, "e5c0", hex.EncodeToString(enc[35:]))

	_, err = TransferCall{Dest: key(1)}.Encode()
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)

	_, err = TransferCall{Dest: key(1), Amount: big.NewInt(-1)}.Encode()
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)
}

func TestExtraEncode(t *testing.T) {
	enc, err := Extra{Nonce: 7}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 7 << 2, 0x00}, enc)

	enc, err = Extra{Nonce: 1, Tip: big.NewInt(1), MetadataHash: true}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x04, 0x04, 0x00}, enc)
}

func TestSigningPayload(t *testing.T) {
	call := []byte{5, 3, 0}
	add := Additional{SpecVersion: 1, TxVersion: 2, GenesisHash: [32]byte{0x91}, BlockHash: [32]byte{0x91}}

	payload, err := SigningPayload(call, Extra{Nonce: 0}, add)
	require.NoError(t, err)

	want := append([]byte{}, call...)
	want = append(want, 0x00, 0x00, 0x00)
	want = append(want, 1, 0, 0, 0, 2, 0, 0, 0)
	want = append(want, add.GenesisHash[:]...)
	want = append(want, add.BlockHash[:]...)
	assert.Equal(t, want, payload)

	withHash, err := SigningPayload(call, Extra{MetadataHash: true}, add)
	require.NoError(t, err)
	assert.Len(t, withHash, len(want)+2)
}

func TestSigningPayloadLongIsHashed(t *testing.T) {
	call := bytes.Repeat([]byte{1}, 300)
	add := Additional{}
	payload, err := SigningPayload(call, Extra{}, add)
	require.NoError(t, err)
	assert.Len(t, payload, 32)

	raw := append(append([]byte{}, call...), 0, 0, 0)
	raw = append(raw, make([]byte, 8+64)...)
	want := crypto_util.Blake2b256(raw)
	assert.Equal(t, want[:], payload)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	amount, _ := new(big.Int).SetString("12345678901234567890", 10)
	call := TransferCall{PalletIndex: 5, CallIndex: 3, Dest: key(0xbb), Amount: amount}
	callEnc, err := call.Encode()
	require.NoError(t, err)

	for _, tt := range []struct {
		name         string
		variant      byte
		metadataHash bool
	}{
		{"ed25519", 0, false},
		{"ecdsa with metadata hash", 2, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			extra := Extra{Nonce: 300, Tip: big.NewInt(5), MetadataHash: tt.metadataHash}
			sig := Signature{Variant: tt.variant, Bytes: bytes.Repeat([]byte{0x5a}, signatureLength(tt.variant))}

			raw, err := EncodeSigned(key(0xcc), sig, callEnc, extra)
			require.NoError(t, err)

			d, err := Decode(raw, tt.metadataHash)
			require.NoError(t, err)
			assert.Equal(t, key(0xcc), d.Signer)
			assert.Equal(t, sig, d.Signature)
			assert.False(t, d.Mortal)
			assert.Equal(t, uint64(300), d.Nonce)
			assert.Equal(t, int64(5), d.Tip.Int64())
			assert.Equal(t, call.Dest, d.Call.Dest)
			assert.Equal(t, uint8(5), d.Call.PalletIndex)
			assert.Equal(t, uint8(3), d.Call.CallIndex)
			assert.Equal(t, 0, amount.Cmp(d.Call.Amount))
		})
	}
}

func TestEncodeSignedLayout(t *testing.T) {
	callEnc, err := TransferCall{PalletIndex: 5, CallIndex: 0, Dest: key(2), Amount: big.NewInt(1)}.Encode()
	require.NoError(t, err)
	raw, err := EncodeSkeleton(key(1), 0, callEnc, Extra{})
	require.NoError(t, err)

	// body: 1 version + 1 addr type + 32 signer + 1 variant + 64 sig + 3 extra + 36 call = 138
	require.Len(t, raw, 2+138)
	assert.Equal(t, []byte{0x29, 0x02}, raw[:2]) // compact(138)
	assert.Equal(t, byte(0x84), raw[2])
	assert.Equal(t, make([]byte, 64), raw[2+35:2+99])
}

func TestEncodeSignedBadSignature(t *testing.T) {
	_, err := EncodeSigned(key(1), Signature{Variant: 0, Bytes: make([]byte, 65)}, nil, Extra{})
	assert.ErrorIs(t, err, errno.ErrInvalidExtrinsic)

	_, err = EncodeSigned(key(1), Signature{Variant: 9, Bytes: make([]byte, 64)}, nil, Extra{})
	assert.ErrorIs(t, err, errno.ErrInvalidExtrinsic)
}

func TestDecodeErrors(t *testing.T) {
	callEnc, err := TransferCall{PalletIndex: 5, CallIndex: 3, Dest: key(2), Amount: big.NewInt(1)}.Encode()
	require.NoError(t, err)
	raw, err := EncodeSkeleton(key(1), 0, callEnc, Extra{})
	require.NoError(t, err)

	_, err = Decode(raw[:len(raw)-1], false)
	assert.ErrorIs(t, err, errno.ErrInvalidExtrinsic)

	bad := append([]byte{}, raw...)
	bad[2] = 0x04 // unsigned
	_, err = Decode(bad, false)
	assert.ErrorIs(t, err, errno.ErrInvalidExtrinsic)

	_, err = Decode(nil, false)
	assert.ErrorIs(t, err, errno.ErrInvalidExtrinsic)
}

func TestHash(t *testing.T) {
	h := Hash([]byte{1, 2, 3})
	assert.Len(t, h, 66)
	assert.Equal(t, "0x", h[:2])
}
