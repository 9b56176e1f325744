package calculator

import (
	"strings"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// ItemizedStrategy splits each item among its own participants and adds the
// per-item shares up per member.
type ItemizedStrategy struct{}

// Type returns the split type identifier.
func (s *ItemizedStrategy) Type() SplitType {
	return SplitItemized
}

// Calculate validates every item, distributes each item's cents among its
// participants in group member order, and checks that the items add up to
// the declared total.
func (s *ItemizedStrategy) Calculate(req Request) ([]Share, error) {
	if len(req.Items) == 0 {
		return nil, &ValidationError{Kind: KindNoItems}
	}

	members := make(map[models.ID]bool, len(req.Members))
	for _, m := range req.Members {
		members[m.ID] = true
	}

	owed := make(map[models.ID]int64, len(req.Members))
	var itemsTotal runningSum

	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, itemError(KindItemMissingName, i)
		}
		units, ok := money.ToMinor(item.Amount)
		if !ok || units <= 0 {
			return nil, itemError(KindItemInvalidAmount, i)
		}
		if len(item.Participants) == 0 {
			return nil, itemError(KindItemNoParticipants, i)
		}

		participating := make(map[models.ID]bool, len(item.Participants))
		for _, id := range item.Participants {
			if !members[id] {
				return nil, &ValidationError{Kind: KindItemUnknownParticipant, Index: i, MemberID: id}
			}
			participating[id] = true
		}

		// Walk the group rather than the item list so duplicates collapse
		// and the cent tie-break follows member order.
		ordered := make([]models.ID, 0, len(participating))
		for _, m := range req.Members {
			if participating[m.ID] {
				ordered = append(ordered, m.ID)
			}
		}

		// Past the ceiling the totals cannot match; the shares are never used.
		if !itemsTotal.saturated() {
			for j, part := range distribute(units, len(ordered)) {
				owed[ordered[j]] += part
			}
		}
		itemsTotal.add(units)
	}

	total, ok := money.ToMinor(req.TotalAmount)
	if !ok {
		return nil, invalidTotal()
	}
	if err := itemsTotal.check(total, req.TotalAmount); err != nil {
		return nil, err
	}

	return sharesFromMinor(req.Members, owed), nil
}
