// Package calculator computes how a shared expense is divided among group
// members. Everything here is pure: no I/O, no state kept between calls.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// SplitType selects how an expense is divided.
type SplitType string

const (
	SplitEqual    SplitType = "equal"
	SplitManual   SplitType = "manual"
	SplitItemized SplitType = "itemized"
)

// Item is one line of an itemized expense.
type Item struct {
	Name   string
	Amount decimal.Decimal

	// Participants share this item evenly. Order does not matter; the
	// group's member order decides who absorbs leftover cents.
	Participants []models.ID
}

// Request is everything needed to split one expense.
// Amounts are expected at minor-unit precision and are rounded to it on entry.
type Request struct {
	TotalAmount decimal.Decimal
	SplitType   SplitType

	// Members is the group's member list, in display order.
	Members []models.Member

	// ManualAmounts is read for SplitManual only.
	ManualAmounts map[models.ID]decimal.Decimal

	// Items is read for SplitItemized only.
	Items []Item
}

// Share is the amount one member owes.
type Share struct {
	MemberID   models.ID
	AmountOwed decimal.Decimal
}

// Result is an accepted split. Shares follow group member order and never
// contain a zero amount.
type Result struct {
	SplitType SplitType
	Total     decimal.Decimal
	Shares    []Share
}

// Sum returns the total of all shares.
func (r *Result) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Shares {
		total = total.Add(s.AmountOwed)
	}
	return total
}

// ShareOf returns what member id owes, zero when absent.
func (r *Result) ShareOf(id models.ID) decimal.Decimal {
	for _, s := range r.Shares {
		if s.MemberID == id {
			return s.AmountOwed
		}
	}
	return decimal.Zero
}

// Strategy computes shares for one split type. Calculate receives a request
// whose total and members have already passed the common preconditions.
type Strategy interface {
	Type() SplitType
	Calculate(req Request) ([]Share, error)
}

// Factory creates split strategies by type.
type Factory struct{}

// NewFactory creates a new factory instance.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for splitType.
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitEqual:
		return &EqualStrategy{}, nil
	case SplitManual:
		return &ManualStrategy{}, nil
	case SplitItemized:
		return &ItemizedStrategy{}, nil
	default:
		return nil, &ValidationError{Kind: KindUnknownSplitType, SplitType: splitType}
	}
}

// ParseSplitType maps a wire tag to a SplitType. "unequal" is an alias for
// manual, as older clients send it.
func ParseSplitType(tag string) (SplitType, error) {
	switch SplitType(tag) {
	case SplitEqual, SplitManual, SplitItemized:
		return SplitType(tag), nil
	case "unequal":
		return SplitManual, nil
	default:
		return "", &ValidationError{Kind: KindUnknownSplitType, SplitType: SplitType(tag)}
	}
}

var defaultFactory = NewFactory()

// Compute validates req and returns the per-member shares.
//
// A non-nil error is always a *ValidationError. Compute panics only when the
// member list itself is malformed (empty or duplicate IDs), which is a
// programming error in the caller rather than bad user input.
func Compute(req Request) (*Result, error) {
	checkMembers(req.Members)

	if total, ok := money.ToMinor(req.TotalAmount); !ok || total <= 0 {
		return nil, invalidTotal()
	}
	if len(req.Members) == 0 {
		return nil, &ValidationError{Kind: KindEmptyGroup}
	}

	strategy, err := defaultFactory.Create(req.SplitType)
	if err != nil {
		return nil, err
	}

	shares, err := strategy.Calculate(req)
	if err != nil {
		return nil, err
	}

	return &Result{
		SplitType: strategy.Type(),
		Total:     money.Round(req.TotalAmount),
		Shares:    shares,
	}, nil
}

func checkMembers(members []models.Member) {
	seen := make(map[models.ID]bool, len(members))
	for i, m := range members {
		if m.ID.IsZero() {
			panic(fmt.Sprintf("calculator: member at index %d has an empty id", i))
		}
		if seen[m.ID] {
			panic(fmt.Sprintf("calculator: duplicate member id %s", m.ID))
		}
		seen[m.ID] = true
	}
}

// sharesFromMinor builds shares in member order, dropping zero amounts.
func sharesFromMinor(members []models.Member, owed map[models.ID]int64) []Share {
	shares := make([]Share, 0, len(owed))
	for _, m := range members {
		units := owed[m.ID]
		if units == 0 {
			continue
		}
		shares = append(shares, Share{MemberID: m.ID, AmountOwed: money.FromMinor(units)})
	}
	return shares
}
