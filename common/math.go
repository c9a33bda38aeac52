package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// AlgoDecimals is the precision of the native asset.
const AlgoDecimals int32 = 6

// ToBaseUnits scales a display amount into base units of an asset with the
// given decimals. Amounts that are negative, fractional after scaling or do
// not fit in uint64 are rejected.
// Example:
// - ToBaseUnits(1.5, 6) = 1500000
// - ToBaseUnits(0.0000001, 6) fails
func ToBaseUnits(amount decimal.Decimal, decimals int32) (uint64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("amount %s is negative", amount)
	}
	scaled := amount.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimals", amount, decimals)
	}
	if scaled.GreaterThan(decimal.NewFromUint64(math.MaxUint64)) {
		return 0, fmt.Errorf("amount %s is too large", amount)
	}
	return scaled.BigInt().Uint64(), nil
}

// FromBaseUnits converts base units back into a display amount.
// Example:
// - FromBaseUnits(1100, 3) = 1.1
// - FromBaseUnits(1100, 0) = 1100
func FromBaseUnits(amount uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromUint64(amount).Shift(-decimals)
}

func MicroalgosToAlgos(microalgos uint64) decimal.Decimal {
	return FromBaseUnits(microalgos, AlgoDecimals)
}

func AlgosToMicroalgos(algos decimal.Decimal) (uint64, error) {
	return ToBaseUnits(algos, AlgoDecimals)
}

// ParseAmount parses a user supplied display amount. Thousands separators
// are not accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
