package calculator

import (
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// EqualStrategy divides the total evenly across every group member.
type EqualStrategy struct{}

// Type returns the split type identifier.
func (s *EqualStrategy) Type() SplitType {
	return SplitEqual
}

// Calculate gives every member the same number of cents; leftover cents go
// to members in group order, one each.
func (s *EqualStrategy) Calculate(req Request) ([]Share, error) {
	total, ok := money.ToMinor(req.TotalAmount)
	if !ok || total <= 0 {
		return nil, invalidTotal()
	}
	parts := distribute(total, len(req.Members))

	owed := make(map[models.ID]int64, len(req.Members))
	for i, m := range req.Members {
		owed[m.ID] = parts[i]
	}
	return sharesFromMinor(req.Members, owed), nil
}
