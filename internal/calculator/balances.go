package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// ExpenseForBalance is the part of a recorded expense that affects balances.
type ExpenseForBalance struct {
	PayerID models.ID
	Shares  []Share
}

// MemberBalance is one member's position across a group's expenses.
type MemberBalance struct {
	MemberID   models.ID
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal
	TotalOwed  decimal.Decimal
}

// DebtEdge is a payment that would settle part of the group's balances.
type DebtEdge struct {
	From   models.ID // Person who owes
	To     models.ID // Person who is owed
	Amount decimal.Decimal
}

type balanceAcc struct {
	paid int64
	owed int64
}

// CalculateGroupBalances aggregates expenses into member balances and a
// simplified list of debts.
//
// Algorithm:
//   - the payer of an expense is credited with the sum of its shares
//   - every share is debited from its member
//   - net = paid - owed
//   - debts: greedy matching of the largest debtor with the largest creditor
//
// Expenses without a payer are skipped. All arithmetic is in minor units so
// the debts always add up to the total credit.
func CalculateGroupBalances(expenses []ExpenseForBalance) ([]MemberBalance, []DebtEdge) {
	accs := make(map[models.ID]*balanceAcc)
	get := func(id models.ID) *balanceAcc {
		acc, ok := accs[id]
		if !ok {
			acc = &balanceAcc{}
			accs[id] = acc
		}
		return acc
	}

	for _, e := range expenses {
		if e.PayerID.IsZero() {
			continue
		}
		payer := get(e.PayerID)
		for _, s := range e.Shares {
			// Recorded shares passed Reconcile, so they are in range.
			units, _ := money.ToMinor(s.AmountOwed)
			payer.paid += units
			get(s.MemberID).owed += units
		}
	}

	ids := make([]models.ID, 0, len(accs))
	for id := range accs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	type position struct {
		id    models.ID
		units int64
	}
	var creditors, debtors []position

	balances := make([]MemberBalance, 0, len(ids))
	for _, id := range ids {
		acc := accs[id]
		net := acc.paid - acc.owed
		balances = append(balances, MemberBalance{
			MemberID:   id,
			NetBalance: money.FromMinor(net),
			TotalPaid:  money.FromMinor(acc.paid),
			TotalOwed:  money.FromMinor(acc.owed),
		})
		switch {
		case net > 0:
			creditors = append(creditors, position{id, net})
		case net < 0:
			debtors = append(debtors, position{id, -net})
		}
	}

	// Largest first; ties keep ID order thanks to the stable sort.
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].units > creditors[j].units })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].units > debtors[j].units })

	var debts []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].units
		if creditors[j].units < amount {
			amount = creditors[j].units
		}
		if amount > 0 {
			debts = append(debts, DebtEdge{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: money.FromMinor(amount),
			})
		}

		debtors[i].units -= amount
		creditors[j].units -= amount
		if debtors[i].units == 0 {
			i++
		}
		if creditors[j].units == 0 {
			j++
		}
	}

	return balances, debts
}
