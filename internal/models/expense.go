package models

import "github.com/shopspring/decimal"

// Expense is a shared expense recorded against a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID ID

	GroupID     ID
	CategoryID  ID
	Description string

	// SplitType is the wire tag of the strategy that produced Shares.
	SplitType string

	// Amount is the declared total of the expense.
	Amount decimal.Decimal

	// PaidBy is the member who fronted the money. Optional.
	PaidBy ID

	// CreatedBy is the authenticated user who recorded the expense.
	CreatedBy ID

	Shares []ExpenseShare

	CreatedAt int64
}

// ExpenseShare is the amount one member owes for an expense.
type ExpenseShare struct {
	UserID     ID
	AmountOwed decimal.Decimal
}
