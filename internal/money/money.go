// Package money handles currency amounts at minor-unit (cent) precision.
//
// Amounts travel as shopspring decimals. Anything that has to add up exactly
// is done on int64 minor units, converted with ToMinor and FromMinor.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places of the currency minor unit.
const Places = 2

// Tolerance is the largest difference, in minor units, accepted when two
// totals are compared.
const Tolerance int64 = 1

// MaxMinor is the largest amount, in minor units, that is accepted anywhere.
// Sums of a few thousand such amounts still fit in an int64.
const MaxMinor int64 = 999_999_999_999_999

var (
	ErrEmpty    = errors.New("amount is empty")
	ErrInvalid  = errors.New("amount is not a number")
	ErrNegative = errors.New("amount cannot be negative")
	ErrTooLarge = fmt.Errorf("%w: larger than %s", ErrInvalid, Format(FromMinor(MaxMinor)))
)

// Parse reads a user-entered amount.
//
// It accepts a dot or a comma as decimal separator and ignores surrounding
// whitespace. The result is rounded half-up to the minor unit. Zero is
// accepted; callers decide whether it is meaningful.
//
// Examples:
//
//	Parse("12.34")  -> 12.34
//	Parse("12,34")  -> 12.34
//	Parse("1.005")  -> 1.01
//	Parse("-3")     -> ErrNegative
//
// Amounts above MaxMinor fail with ErrTooLarge, which also matches ErrInvalid.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrNegative
	}
	// decimal.NewFromString also accepts exponents; amounts typed by people
	// never contain them, so only digits and a single dot are allowed.
	dots := 0
	digits := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case r >= '0' && r <= '9':
			digits++
		default:
			return decimal.Zero, ErrInvalid
		}
	}
	if dots > 1 || digits == 0 {
		return decimal.Zero, ErrInvalid
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalid
	}
	d = Round(d)
	if !InRange(d) {
		return decimal.Zero, ErrTooLarge
	}
	return d, nil
}

// Round quantizes d to the minor unit, rounding half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ToMinor converts d to minor units, rounding half away from zero. ok is
// false when the result lies outside ±MaxMinor; units is then zero.
func ToMinor(d decimal.Decimal) (units int64, ok bool) {
	if !InRange(d) {
		return 0, false
	}
	return d.Shift(Places).Round(0).IntPart(), true
}

var maxAmount = FromMinor(MaxMinor)

// InRange reports whether d, rounded to the minor unit, lies within
// ±MaxMinor.
func InRange(d decimal.Decimal) bool {
	return Round(d).Abs().LessThanOrEqual(maxAmount)
}

// FromMinor converts minor units back to a decimal amount.
func FromMinor(units int64) decimal.Decimal {
	return decimal.New(units, -Places)
}

// Format renders d with exactly Places decimals, e.g. "33.40".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Within reports whether a and b differ by no more than Tolerance.
func Within(a, b decimal.Decimal) bool {
	return Round(a).Sub(Round(b)).Abs().LessThanOrEqual(FromMinor(Tolerance))
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
