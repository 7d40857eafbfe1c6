// Package core holds the transaction entity, its validation rules and the
// monetary helpers shared by the storage and reporting layers.
//
// All money handling goes through shopspring/decimal; native floats are
// never used for amounts, so sums stay exact across any number of rows.
package core

import (
	"github.com/shopspring/decimal"
)

// RoundMoney rounds a monetary value half-up to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Cents converts a two-decimal monetary value to integer cents for storage.
// Validate normalizes amounts before they reach here, so the conversion is
// exact.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromCents converts stored integer cents back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ParseAmount parses a decimal string into a non-negative monetary value
// rounded to two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a decimal number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "cannot be negative"}
	}
	return RoundMoney(d), nil
}
