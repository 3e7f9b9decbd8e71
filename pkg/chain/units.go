package chain

import (
	"fmt"
	"math/big"

	"dot-wallet/pkg/errno"

	"github.com/shopspring/decimal"
)

// DOTDecimals 1 DOT = 10^10 planck
const DOTDecimals int32 = 10

// ToPlanck 将带小数的金额转换为最小单位
func ToPlanck(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", errno.ErrInvalidAmount, amount)
	}
	planck := amount.Shift(decimals)
	if !planck.Equal(planck.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimals", errno.ErrInvalidAmount, amount, decimals)
	}
	return planck.BigInt(), nil
}

// FromPlanck 将最小单位转换为带小数的金额
func FromPlanck(planck *big.Int, decimals int32) decimal.Decimal {
	if planck == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(planck, -decimals)
}

// ParsePlanck 解析十进制整数字符串 (最小单位), 拒绝负数、小数与科学计数法
func ParsePlanck(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty amount", errno.ErrInvalidAmount)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: %q is not a non-negative integer", errno.ErrInvalidAmount, s)
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errno.ErrInvalidAmount, s)
	}
	return v, nil
}
