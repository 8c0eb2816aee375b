// Package money centralizes currency arithmetic for bills and tenders.
// Amounts are decimal values in the restaurant's currency, rounded to two
// places at presentation and comparison boundaries.
package money

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used when matching tender sums against a bill
// total, absorbing rounding from divided amounts.
var Epsilon = decimal.NewFromFloat(0.01)

// Zero is the additive identity.
var Zero = decimal.Zero

// FromFloat converts a float currency amount as received on the wire.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Round normalizes an amount to two decimal places.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// EqualWithin reports whether a and b differ by at most Epsilon.
func EqualWithin(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// FloorZero clamps negative display amounts to zero.
func FloorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
