package extrinsic

import (
	"fmt"
	"math/big"

	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/scale"
	"dot-wallet/pkg/ss58"
)

// Decoded 解码后的签名转账交易
type Decoded struct {
	Signer    ss58.PublicKey
	Signature Signature
	Mortal    bool
	Nonce     uint64
	Tip       *big.Int
	Call      TransferCall
}

// Decode 解析 EncodeSigned 的输出; metadataHash 需与编码时一致
func Decode(raw []byte, metadataHash bool) (*Decoded, error) {
	r := &reader{buf: raw}

	length, err := r.compactUint()
	if err != nil {
		return nil, err
	}
	if uint64(len(r.buf)-r.pos) != length {
		return nil, invalid("length prefix %d does not match body %d", length, len(r.buf)-r.pos)
	}

	d := &Decoded{}
	if v, _ := r.readByte(); v != signedVersion {
		return nil, invalid("unsupported version byte 0x%02x", v)
	}
	if v, _ := r.readByte(); v != multiAddressID {
		return nil, invalid("unsupported signer address type %d", v)
	}
	if err := r.key(&d.Signer); err != nil {
		return nil, err
	}

	variant, err := r.readByte()
	if err != nil {
		return nil, err
	}
	sigLen := signatureLength(variant)
	if sigLen == 0 {
		return nil, invalid("unknown signature variant %d", variant)
	}
	sig, err := r.take(sigLen)
	if err != nil {
		return nil, err
	}
	d.Signature = Signature{Variant: variant, Bytes: sig}

	era, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if era != immortalEra {
		// mortal era 占两个字节
		d.Mortal = true
		if _, err := r.readByte(); err != nil {
			return nil, err
		}
	}
	if d.Nonce, err = r.compactUint(); err != nil {
		return nil, err
	}
	if d.Tip, err = r.compact(); err != nil {
		return nil, err
	}
	if metadataHash {
		if _, err := r.readByte(); err != nil {
			return nil, err
		}
	}

	call, err := r.take(3)
	if err != nil {
		return nil, err
	}
	if call[2] != multiAddressID {
		return nil, invalid("unsupported dest address type %d", call[2])
	}
	d.Call.PalletIndex, d.Call.CallIndex = call[0], call[1]
	if err := r.key(&d.Call.Dest); err != nil {
		return nil, err
	}
	if d.Call.Amount, err = r.compact(); err != nil {
		return nil, err
	}
	if r.pos != len(r.buf) {
		return nil, invalid("%d trailing bytes", len(r.buf)-r.pos)
	}
	return d, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) take(n int) ([]byte, error) {
	if len(r.buf)-r.pos < n {
		return nil, invalid("unexpected end of input at offset %d", r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) key(dst *ss58.PublicKey) error {
	b, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst[:], b)
	return nil
}

func (r *reader) compact() (*big.Int, error) {
	v, n, err := scale.DecodeCompact(r.buf[r.pos:])
	if err != nil {
		return nil, invalid("offset %d: %v", r.pos, err)
	}
	r.pos += n
	return v, nil
}

func (r *reader) compactUint() (uint64, error) {
	v, n, err := scale.DecodeCompactUint(r.buf[r.pos:])
	if err != nil {
		return 0, invalid("offset %d: %v", r.pos, err)
	}
	r.pos += n
	return v, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errno.ErrInvalidExtrinsic, fmt.Sprintf(format, args...))
}
