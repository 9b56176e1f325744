// Package submitter turns the group expense form into a split and posts it to
// the Remote Expense API.
package submitter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// ErrMalformedGroup is returned when a group snapshot has members with empty
// or repeated IDs. The engine treats that as a programming error, so it is
// caught here before any computation.
var ErrMalformedGroup = errors.New("group member list is malformed")

// ItemForm is one itemized row as typed by the user.
type ItemForm struct {
	Name         string
	Amount       string
	Participants []models.ID
}

// Form holds the raw field values of the add-expense form.
type Form struct {
	Description string
	CategoryID  models.ID
	TotalAmount string

	// SplitType is the wire tag: "equal", "manual" (or "unequal"), "itemized".
	SplitType string

	// PaidBy is optional.
	PaidBy models.ID

	// MemberAmounts is read for manual splits. A blank value counts as
	// not entered.
	MemberAmounts map[models.ID]string

	// Items is read for itemized splits.
	Items []ItemForm
}

// BuildRequest coerces the form into an engine request for group.
func BuildRequest(form Form, group models.Group) (calculator.Request, error) {
	if strings.TrimSpace(form.Description) == "" {
		return calculator.Request{}, &calculator.ValidationError{Kind: calculator.KindMissingDescription}
	}
	if err := checkGroup(group); err != nil {
		return calculator.Request{}, err
	}

	splitType, err := calculator.ParseSplitType(strings.TrimSpace(form.SplitType))
	if err != nil {
		return calculator.Request{}, err
	}

	total, err := money.Parse(form.TotalAmount)
	if err != nil {
		return calculator.Request{}, &calculator.ValidationError{Kind: calculator.KindInvalidTotal}
	}

	req := calculator.Request{
		TotalAmount: total,
		SplitType:   splitType,
		Members:     group.Members,
	}

	switch splitType {
	case calculator.SplitManual:
		req.ManualAmounts, err = parseMemberAmounts(form.MemberAmounts, group)
	case calculator.SplitItemized:
		req.Items, err = parseItems(form.Items)
	}
	if err != nil {
		return calculator.Request{}, err
	}
	return req, nil
}

func checkGroup(group models.Group) error {
	seen := make(map[models.ID]bool, len(group.Members))
	for i, m := range group.Members {
		if m.ID.IsZero() {
			return fmt.Errorf("%w: member %d has no id", ErrMalformedGroup, i)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: member %s listed twice", ErrMalformedGroup, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

func parseMemberAmounts(raw map[models.ID]string, group models.Group) (map[models.ID]decimal.Decimal, error) {
	// Group members first, then strangers in sorted order, so the first
	// reported error does not depend on map iteration.
	ids := make([]models.ID, 0, len(raw))
	for _, m := range group.Members {
		if _, ok := raw[m.ID]; ok {
			ids = append(ids, m.ID)
		}
	}
	var extra []models.ID
	for id := range raw {
		if !group.HasMember(id) {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	ids = append(ids, extra...)

	amounts := make(map[models.ID]decimal.Decimal, len(ids))
	for _, id := range ids {
		text := strings.TrimSpace(raw[id])
		if text == "" {
			continue
		}
		amount, err := money.Parse(text)
		if err != nil {
			return nil, &calculator.ValidationError{Kind: calculator.KindInvalidMemberAmount, MemberID: id}
		}
		amounts[id] = amount
	}
	return amounts, nil
}

func parseItems(forms []ItemForm) ([]calculator.Item, error) {
	items := make([]calculator.Item, 0, len(forms))
	for i, f := range forms {
		var amount decimal.Decimal
		if strings.TrimSpace(f.Amount) != "" {
			parsed, err := money.Parse(f.Amount)
			if err != nil {
				return nil, &calculator.ValidationError{Kind: calculator.KindItemInvalidAmount, Index: i}
			}
			amount = parsed
		}
		participants := make([]models.ID, len(f.Participants))
		copy(participants, f.Participants)
		items = append(items, calculator.Item{
			Name:         strings.TrimSpace(f.Name),
			Amount:       amount,
			Participants: participants,
		})
	}
	return items, nil
}
