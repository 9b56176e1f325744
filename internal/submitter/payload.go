package submitter

import (
	"encoding/json"
	"strings"

	"github.com/mmynk/sharesplit/internal/apiclient"
	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

// Meta is the expense data that does not come out of the engine.
type Meta struct {
	Description string
	GroupID     models.ID
	CategoryID  models.ID
	PaidBy      models.ID
}

// MetaFromForm extracts the non-split fields of a form.
func MetaFromForm(form Form, group models.Group) Meta {
	return Meta{
		Description: strings.TrimSpace(form.Description),
		GroupID:     group.ID,
		CategoryID:  form.CategoryID,
		PaidBy:      form.PaidBy,
	}
}

// ToAPIPayload builds the create-expense body for an accepted split.
// Amounts are written as fixed two-decimal numbers.
func ToAPIPayload(result *calculator.Result, meta Meta) apiclient.ExpenseRequest {
	shares := make([]apiclient.ShareRequest, 0, len(result.Shares))
	for _, s := range result.Shares {
		shares = append(shares, apiclient.ShareRequest{
			User:       s.MemberID,
			AmountOwed: json.Number(money.Format(s.AmountOwed)),
		})
	}
	return apiclient.ExpenseRequest{
		Description: meta.Description,
		Group:       meta.GroupID,
		CategoryID:  meta.CategoryID,
		SplitType:   string(result.SplitType),
		Amount:      json.Number(money.Format(result.Total)),
		Shares:      shares,
		PaidBy:      meta.PaidBy,
	}
}
