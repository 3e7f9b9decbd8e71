// Package extrinsic encodes signed version-4 balance transfer extrinsics and
// their signing payloads, and decodes them back for inspection.
package extrinsic

import (
	"fmt"
	"math/big"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/scale"
	"dot-wallet/pkg/ss58"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// signed bit | version 4
	signedVersion byte = 0x84

	multiAddressID byte = 0x00
	immortalEra    byte = 0x00

	// CheckMetadataHash 扩展: mode = Disabled, 附加数据 = None
	metadataHashDisabled byte = 0x00

	// 超过该长度的签名载荷先做 blake2b-256
	maxRawPayload = 256
)

// TransferCall Balances.transfer_* 调用
type TransferCall struct {
	PalletIndex uint8
	CallIndex   uint8
	Dest        ss58.PublicKey
	Amount      *big.Int
}

// Encode pallet ‖ call ‖ MultiAddress::Id(dest) ‖ compact(amount)
func (c TransferCall) Encode() ([]byte, error) {
	if c.Amount == nil {
		return nil, fmt.Errorf("%w: nil amount", errno.ErrInvalidAmount)
	}
	amount, err := scale.EncodeCompact(c.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidAmount, err)
	}

	out := make([]byte, 0, 3+len(c.Dest)+len(amount))
	out = append(out, c.PalletIndex, c.CallIndex, multiAddressID)
	out = append(out, c.Dest[:]...)
	return append(out, amount...), nil
}

// Extra 签名扩展中随交易一起编码的部分 (永久 era)
type Extra struct {
	Nonce        uint64
	Tip          *big.Int
	MetadataHash bool
}

func (e Extra) Encode() ([]byte, error) {
	tip := e.Tip
	if tip == nil {
		tip = new(big.Int)
	}
	tipEnc, err := scale.EncodeCompact(tip)
	if err != nil {
		return nil, fmt.Errorf("%w: tip: %v", errno.ErrInvalidAmount, err)
	}

	out := []byte{immortalEra}
	out = append(out, scale.EncodeCompactUint(e.Nonce)...)
	out = append(out, tipEnc...)
	if e.MetadataHash {
		out = append(out, metadataHashDisabled)
	}
	return out, nil
}

// Additional 签名时附加但不编码进交易的数据
type Additional struct {
	SpecVersion uint32
	TxVersion   uint32
	GenesisHash [32]byte
	// 永久 era 下等于 GenesisHash
	BlockHash [32]byte
}

// Signature MultiSignature
type Signature struct {
	Variant byte
	Bytes   []byte
}

// SigningPayload call ‖ extra ‖ spec ‖ tx ‖ genesis ‖ block [‖ None]
func SigningPayload(call []byte, extra Extra, add Additional) ([]byte, error) {
	extraEnc, err := extra.Encode()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(call)+len(extraEnc)+72+1)
	payload = append(payload, call...)
	payload = append(payload, extraEnc...)
	payload = append(payload, scale.EncodeU32(add.SpecVersion)...)
	payload = append(payload, scale.EncodeU32(add.TxVersion)...)
	payload = append(payload, add.GenesisHash[:]...)
	payload = append(payload, add.BlockHash[:]...)
	if extra.MetadataHash {
		payload = append(payload, metadataHashDisabled)
	}

	if len(payload) > maxRawPayload {
		h := crypto_util.Blake2b256(payload)
		return h[:], nil
	}
	return payload, nil
}

// EncodeSigned compact(len) ‖ 0x84 ‖ signer ‖ signature ‖ extra ‖ call
func EncodeSigned(signer ss58.PublicKey, sig Signature, call []byte, extra Extra) ([]byte, error) {
	if want := signatureLength(sig.Variant); want == 0 || len(sig.Bytes) != want {
		return nil, fmt.Errorf("%w: signature variant %d with %d bytes", errno.ErrInvalidExtrinsic, sig.Variant, len(sig.Bytes))
	}
	extraEnc, err := extra.Encode()
	if err != nil {
		return nil, err
	}

	body := make([]byte, 0, 2+len(signer)+1+len(sig.Bytes)+len(extraEnc)+len(call))
	body = append(body, signedVersion, multiAddressID)
	body = append(body, signer[:]...)
	body = append(body, sig.Variant)
	body = append(body, sig.Bytes...)
	body = append(body, extraEnc...)
	body = append(body, call...)

	return append(scale.EncodeCompactUint(uint64(len(body))), body...), nil
}

// EncodeSkeleton 用全零签名编码, 仅用于手续费估算
func EncodeSkeleton(signer ss58.PublicKey, variant byte, call []byte, extra Extra) ([]byte, error) {
	return EncodeSigned(signer, Signature{Variant: variant, Bytes: make([]byte, signatureLength(variant))}, call, extra)
}

// Hash 交易哈希 0x + hex(blake2b-256(extrinsic))
func Hash(raw []byte) string {
	h := crypto_util.Blake2b256(raw)
	return hexutil.Encode(h[:])
}

func signatureLength(variant byte) int {
	switch variant {
	case 0, 1:
		return 64
	case 2:
		return 65
	default:
		return 0
	}
}
