package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// Reconcile checks a share list produced elsewhere against the rules every
// accepted split obeys: each share belongs to a member, appears once, is not
// zero or negative, and the shares add up to total within money.Tolerance.
// Amounts beyond money.MaxMinor are rejected like any other invalid amount.
func Reconcile(total decimal.Decimal, shares []Share, members []models.ID) error {
	totalUnits, ok := money.ToMinor(total)
	if !ok || totalUnits <= 0 {
		return invalidTotal()
	}
	if len(members) == 0 {
		return &ValidationError{Kind: KindEmptyGroup}
	}

	known := make(map[models.ID]bool, len(members))
	for _, id := range members {
		known[id] = true
	}

	seen := make(map[models.ID]bool, len(shares))
	var sum runningSum
	for _, s := range shares {
		if !known[s.MemberID] {
			return memberError(KindUnknownMember, s.MemberID)
		}
		units, ok := money.ToMinor(s.AmountOwed)
		if !ok || units <= 0 || seen[s.MemberID] {
			return memberError(KindInvalidMemberAmount, s.MemberID)
		}
		seen[s.MemberID] = true
		sum.add(units)
	}

	return sum.check(totalUnits, total)
}
