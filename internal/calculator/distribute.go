package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/money"
)

// sumCeiling is one cent past the largest sum that can still match a valid
// total within tolerance.
const sumCeiling = money.MaxMinor + money.Tolerance + 1

// runningSum adds up minor units without wrapping. Once the sum passes
// sumCeiling it stays there, which is enough to report a mismatch; the exact
// figure for the message is kept as a decimal.
type runningSum struct {
	units   int64
	entered decimal.Decimal
}

func (s *runningSum) add(units int64) {
	s.entered = s.entered.Add(money.FromMinor(units))
	s.units += units
	if s.units > sumCeiling {
		s.units = sumCeiling
	}
}

func (s *runningSum) saturated() bool {
	return s.units >= sumCeiling
}

// check compares the sum against total, both in minor units.
func (s *runningSum) check(total int64, expected decimal.Decimal) error {
	if diff := s.units - total; diff > money.Tolerance || diff < -money.Tolerance {
		return totalMismatch(s.entered, expected)
	}
	return nil
}

// distribute splits units evenly over n recipients.
//
// Every recipient gets units/n; the leftover units go one each to the first
// recipients in order. The parts always add up to units exactly.
//
//	distribute(10000, 3) -> [3334 3333 3333]
func distribute(units int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := units / int64(n)
	remainder := units - base*int64(n)

	parts := make([]int64, n)
	for i := range parts {
		parts[i] = base
		if int64(i) < remainder {
			parts[i]++
		}
	}
	return parts
}
