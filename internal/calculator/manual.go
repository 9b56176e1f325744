package calculator

import (
	"sort"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// ManualStrategy uses the amounts typed in for each member.
type ManualStrategy struct{}

// Type returns the split type identifier.
func (s *ManualStrategy) Type() SplitType {
	return SplitManual
}

// Calculate requires an amount for every member, rejects negative amounts and
// entries for non-members, and checks that the amounts add up to the total.
func (s *ManualStrategy) Calculate(req Request) ([]Share, error) {
	owed := make(map[models.ID]int64, len(req.Members))
	members := make(map[models.ID]bool, len(req.Members))

	var sum runningSum
	for _, m := range req.Members {
		members[m.ID] = true
		amount, ok := req.ManualAmounts[m.ID]
		if !ok {
			return nil, memberError(KindMissingMemberAmount, m.ID)
		}
		units, ok := money.ToMinor(amount)
		if !ok || amount.IsNegative() || units < 0 {
			return nil, memberError(KindInvalidMemberAmount, m.ID)
		}
		owed[m.ID] = units
		sum.add(units)
	}

	if extra := unknownIDs(req.ManualAmounts, members); len(extra) > 0 {
		return nil, memberError(KindUnknownMember, extra[0])
	}

	total, ok := money.ToMinor(req.TotalAmount)
	if !ok {
		return nil, invalidTotal()
	}
	if err := sum.check(total, req.TotalAmount); err != nil {
		return nil, err
	}

	return sharesFromMinor(req.Members, owed), nil
}

// unknownIDs lists keys of amounts that are not group members, sorted so the
// reported error does not depend on map iteration order.
func unknownIDs[V any](amounts map[models.ID]V, members map[models.ID]bool) []models.ID {
	var extra []models.ID
	for id := range amounts {
		if !members[id] {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return extra
}
