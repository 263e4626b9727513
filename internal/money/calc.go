// Package money implements the purchase arithmetic used across the engine.
// All functions are pure and total: invalid or missing input degrades to
// zero so that live recalculation on partial form input never fails.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// bagUnit is the fixed divisor converting weight-priced purchases into the
// business's standard bag-weight unit.
var bagUnit = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// Base computes the base amount of a purchase. Lumpsum pricing is
// bags * rate; weight pricing is weight * rate / 20, carried at 6 decimal
// places before the final half-up round to 2. Rounding twice is part of
// the contract: callers compare against these exact amounts.
func Base(lumpsum bool, bags int64, weightKg, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	if lumpsum {
		return decimal.NewFromInt(bags).Mul(rate).Round(2)
	}
	return weightKg.Mul(rate).DivRound(bagUnit, 6).Round(2)
}

// Fee computes base * percent / 100 with the same two-stage rounding as Base.
func Fee(base, percent decimal.Decimal) decimal.Decimal {
	if base.IsZero() || percent.IsZero() {
		return decimal.Zero
	}
	return base.Mul(percent).DivRound(hundred, 6).Round(2)
}

// GrandTotal sums the base amount and fee amounts, rounded half-up to 2 places.
func GrandTotal(base, marketFee, commissionFee decimal.Decimal) decimal.Decimal {
	return base.Add(marketFee).Add(commissionFee).Round(2)
}

// ParseAmount parses raw user-entered text into a decimal. Grouping commas
// are tolerated; anything unparseable is zero, never an error.
func ParseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseCount parses raw user-entered text into an integer count, zero on
// any parse failure.
func ParseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
