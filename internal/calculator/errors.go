package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// Kind identifies which validation rule rejected a split request.
type Kind string

const (
	KindInvalidTotal           Kind = "invalid_total"
	KindEmptyGroup             Kind = "empty_group"
	KindMissingMemberAmount    Kind = "missing_member_amount"
	KindInvalidMemberAmount    Kind = "invalid_member_amount"
	KindUnknownMember          Kind = "unknown_member"
	KindTotalMismatch          Kind = "total_mismatch"
	KindNoItems                Kind = "no_items"
	KindItemMissingName        Kind = "item_missing_name"
	KindItemInvalidAmount      Kind = "item_invalid_amount"
	KindItemNoParticipants     Kind = "item_no_participants"
	KindItemUnknownParticipant Kind = "item_unknown_participant"
	KindUnknownSplitType       Kind = "unknown_split_type"
	KindMissingDescription     Kind = "missing_description"
)

// ValidationError reports user input that cannot be turned into shares.
// Only the fields relevant to Kind are set.
type ValidationError struct {
	Kind Kind

	// MemberID is set for member-specific kinds.
	MemberID models.ID

	// Index is the zero-based item position for item kinds.
	Index int

	// Entered and Expected are set for KindTotalMismatch.
	Entered  decimal.Decimal
	Expected decimal.Decimal

	// SplitType is set for KindUnknownSplitType.
	SplitType SplitType
}

// Sentinels for errors.Is; they match any ValidationError of the same kind.
var (
	ErrInvalidTotal           = &ValidationError{Kind: KindInvalidTotal}
	ErrEmptyGroup             = &ValidationError{Kind: KindEmptyGroup}
	ErrMissingMemberAmount    = &ValidationError{Kind: KindMissingMemberAmount}
	ErrInvalidMemberAmount    = &ValidationError{Kind: KindInvalidMemberAmount}
	ErrUnknownMember          = &ValidationError{Kind: KindUnknownMember}
	ErrTotalMismatch          = &ValidationError{Kind: KindTotalMismatch}
	ErrNoItems                = &ValidationError{Kind: KindNoItems}
	ErrItemMissingName        = &ValidationError{Kind: KindItemMissingName}
	ErrItemInvalidAmount      = &ValidationError{Kind: KindItemInvalidAmount}
	ErrItemNoParticipants     = &ValidationError{Kind: KindItemNoParticipants}
	ErrItemUnknownParticipant = &ValidationError{Kind: KindItemUnknownParticipant}
	ErrUnknownSplitType       = &ValidationError{Kind: KindUnknownSplitType}
	ErrMissingDescription     = &ValidationError{Kind: KindMissingDescription}
)

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindInvalidTotal:
		return "total amount must be greater than zero"
	case KindEmptyGroup:
		return "group has no members"
	case KindMissingMemberAmount:
		return fmt.Sprintf("missing amount for member %s", e.MemberID)
	case KindInvalidMemberAmount:
		return fmt.Sprintf("invalid amount for member %s", e.MemberID)
	case KindUnknownMember:
		return fmt.Sprintf("member %s is not in the group", e.MemberID)
	case KindTotalMismatch:
		return fmt.Sprintf("amounts add up to %s but the total is %s",
			money.Format(e.Entered), money.Format(e.Expected))
	case KindNoItems:
		return "at least one item is required"
	case KindItemMissingName:
		return fmt.Sprintf("item %d has no name", e.Index+1)
	case KindItemInvalidAmount:
		return fmt.Sprintf("item %d must have an amount greater than zero", e.Index+1)
	case KindItemNoParticipants:
		return fmt.Sprintf("item %d has no participants", e.Index+1)
	case KindItemUnknownParticipant:
		return fmt.Sprintf("item %d lists %s who is not in the group", e.Index+1, e.MemberID)
	case KindUnknownSplitType:
		return fmt.Sprintf("unknown split type %q", e.SplitType)
	case KindMissingDescription:
		return "description is required"
	default:
		return fmt.Sprintf("invalid split request (%s)", e.Kind)
	}
}

// Is matches any ValidationError with the same Kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

func invalidTotal() error {
	return &ValidationError{Kind: KindInvalidTotal}
}

func memberError(kind Kind, id models.ID) error {
	return &ValidationError{Kind: kind, MemberID: id}
}

func itemError(kind Kind, index int) error {
	return &ValidationError{Kind: kind, Index: index}
}

func totalMismatch(entered, expected decimal.Decimal) error {
	return &ValidationError{
		Kind:     KindTotalMismatch,
		Entered:  money.Round(entered),
		Expected: money.Round(expected),
	}
}
