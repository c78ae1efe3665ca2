package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal converts an amount of minor units to decimal without loss.
func ToDecimal(amount uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
}

// ToUint64 truncates a decimal toward zero and returns it as an amount of
// minor units. Negative values return zero.
func ToUint64(d decimal.Decimal) uint64 {
	if d.Sign() <= 0 {
		return 0
	}
	return d.Truncate(0).BigInt().Uint64()
}
