// Package multisig derives the deterministic account of a Substrate
// multisig group from its member addresses and threshold.
package multisig

import (
	"fmt"
	"sort"

	"dot-wallet/pkg/crypto_util"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/scale"
	"dot-wallet/pkg/ss58"

	"github.com/hashicorp/go-multierror"
)

// 链上 pallet_multisig 使用的域分隔常量
var domain = []byte("modlpy/utilisuba")

// MaxMembers 成员数需要放进单字节 compact 编码
const MaxMembers = 63

// DeriveAddress 计算多签地址, 结果使用通用格式 42
func DeriveAddress(members []string, threshold uint16) (string, error) {
	return DeriveAddressWithFormat(members, threshold, ss58.FormatSubstrate)
}

// DeriveAddressWithFormat 计算多签地址并编码为指定网络格式
func DeriveAddressWithFormat(members []string, threshold uint16, format ss58.Format) (string, error) {
	keys, err := decodeMembers(members)
	if err != nil {
		return "", err
	}

	id, err := DeriveAccountID(keys, threshold)
	if err != nil {
		return "", err
	}
	return ss58.Encode(format, id)
}

// DeriveAccountID 根据成员公钥和门限计算多签账户公钥
// blake2b-256("modlpy/utilisuba" ‖ compact(n) ‖ sorted(keys) ‖ threshold_u16_le)
func DeriveAccountID(keys []ss58.PublicKey, threshold uint16) (ss58.PublicKey, error) {
	var id ss58.PublicKey

	if len(keys) == 0 {
		return id, fmt.Errorf("%w: empty member list", errno.ErrInvalidMember)
	}
	if len(keys) > MaxMembers {
		return id, fmt.Errorf("%w: %d > %d", errno.ErrTooManyMembers, len(keys), MaxMembers)
	}
	if threshold == 0 {
		return id, fmt.Errorf("%w: threshold must be positive", errno.ErrInvalidThreshold)
	}

	sorted := make([]ss58.PublicKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return id, fmt.Errorf("%w: duplicate member %s", errno.ErrInvalidMember, sorted[i].Hex())
		}
	}

	payload := make([]byte, 0, len(domain)+1+len(sorted)*len(id)+2)
	payload = append(payload, domain...)
	payload = append(payload, scale.EncodeCompactUint(uint64(len(sorted)))...)
	for _, k := range sorted {
		payload = append(payload, k[:]...)
	}
	payload = append(payload, scale.EncodeU16(threshold)...)

	return ss58.PublicKey(crypto_util.Blake2b256(payload)), nil
}

// decodeMembers 解析全部成员地址, 一次性返回所有错误
func decodeMembers(members []string) ([]ss58.PublicKey, error) {
	keys := make([]ss58.PublicKey, 0, len(members))
	var result *multierror.Error
	for i, m := range members {
		_, pub, err := ss58.Decode(m)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("member %d: %w", i, err))
			continue
		}
		keys = append(keys, pub)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s", errno.ErrInvalidMember, err)
	}
	return keys, nil
}
