package token

import (
	"math/big"
)

// AmountFromBigInt converts an arbitrary precision amount into the program's
// u64 representation.
func AmountFromBigInt(amount *big.Int) (uint64, error) {
	if amount == nil {
		return 0, ErrInvalidAmount
	}
	if amount.Sign() < 0 {
		return 0, ErrNegativeAmount
	}
	if !amount.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return amount.Uint64(), nil
}

// AmountFromInt64 converts a signed amount into the program's u64
// representation.
func AmountFromInt64(amount int64) (uint64, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	return uint64(amount), nil
}
