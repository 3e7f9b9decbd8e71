package chain

import (
	"fmt"
	"math/big"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/scale"
	"dot-wallet/pkg/ss58"
)

// AccountInfo 中 AccountData 的起始偏移: nonce, consumers, providers, sufficients 各 u32
const accountDataOffset = 16

// StorageKey twox128(pallet) ‖ twox128(item) ‖ hasher(key)
func StorageKey(pallet, item string, hashedKey []byte) []byte {
	key := make([]byte, 0, 32+len(hashedKey))
	key = append(key, crypto_util.Twox128([]byte(pallet))...)
	key = append(key, crypto_util.Twox128([]byte(item))...)
	return append(key, hashedKey...)
}

// SystemAccountKey System.Account(AccountId) 存储键, 使用 blake2_128_concat
func SystemAccountKey(account ss58.PublicKey) []byte {
	return StorageKey("System", "Account", crypto_util.Blake2b128Concat(account[:]))
}

// DecodeFreeBalance 从 AccountInfo 中取 data.free
func DecodeFreeBalance(accountInfo []byte) (*big.Int, error) {
	if len(accountInfo) < accountDataOffset+16 {
		return nil, fmt.Errorf("account info too short: %d bytes", len(accountInfo))
	}
	return scale.DecodeU128(accountInfo[accountDataOffset:])
}

// decodeDispatchFee 解析 TransactionPaymentApi_query_info 返回的 RuntimeDispatchInfo
// weight(compact ref_time, compact proof_size) ‖ class u8 ‖ partial_fee u128
func decodeDispatchFee(raw []byte) (*big.Int, error) {
	pos := 0
	for i := 0; i < 2; i++ {
		_, n, err := scale.DecodeCompact(raw[pos:])
		if err != nil {
			return nil, fmt.Errorf("dispatch info weight: %w", err)
		}
		pos += n
	}
	pos++ // dispatch class
	if pos > len(raw) {
		return nil, scale.ErrShortRead
	}
	return scale.DecodeU128(raw[pos:])
}
