package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/submitter"
)

// splitFlags are the form fields shared by compute and submit.
type splitFlags struct {
	description string
	category    string
	total       string
	splitType   string
	paidBy      string
	amounts     []string
	items       []string
}

func (f *splitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "expense description")
	cmd.Flags().StringVar(&f.category, "category", "", "category id (see splitctl categories)")
	cmd.Flags().StringVarP(&f.total, "total", "t", "", "total amount, e.g. 12.50")
	cmd.Flags().StringVarP(&f.splitType, "split", "s", "equal", "split type: equal, manual or itemized")
	cmd.Flags().StringVar(&f.paidBy, "paid-by", "", "member id of the payer")
	cmd.Flags().StringArrayVar(&f.amounts, "amount", nil, "manual amount as member=amount (repeatable)")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "itemized line as name:amount:member1,member2 (repeatable)")
	_ = cmd.MarkFlagRequired("total")
}

func (f *splitFlags) form() (submitter.Form, error) {
	form := submitter.Form{
		Description: f.description,
		CategoryID:  models.ID(f.category),
		TotalAmount: f.total,
		SplitType:   f.splitType,
		PaidBy:      models.ID(f.paidBy),
	}

	if len(f.amounts) > 0 {
		form.MemberAmounts = make(map[models.ID]string, len(f.amounts))
		for _, raw := range f.amounts {
			id, amount, ok := strings.Cut(raw, "=")
			if !ok || strings.TrimSpace(id) == "" {
				return submitter.Form{}, fmt.Errorf("invalid --amount %q: expected member=amount", raw)
			}
			form.MemberAmounts[models.ID(strings.TrimSpace(id))] = amount
		}
	}

	for _, raw := range f.items {
		item, err := parseItem(raw)
		if err != nil {
			return submitter.Form{}, err
		}
		form.Items = append(form.Items, item)
	}
	return form, nil
}

// parseItem reads "name:amount:id1,id2". The name may itself contain colons.
func parseItem(raw string) (submitter.ItemForm, error) {
	last := strings.LastIndex(raw, ":")
	if last < 0 {
		return submitter.ItemForm{}, fmt.Errorf("invalid --item %q: expected name:amount:members", raw)
	}
	head, members := raw[:last], raw[last+1:]

	mid := strings.LastIndex(head, ":")
	if mid < 0 {
		return submitter.ItemForm{}, fmt.Errorf("invalid --item %q: expected name:amount:members", raw)
	}

	item := submitter.ItemForm{Name: head[:mid], Amount: head[mid+1:]}
	for _, id := range strings.Split(members, ",") {
		if id = strings.TrimSpace(id); id != "" {
			item.Participants = append(item.Participants, models.ID(id))
		}
	}
	return item, nil
}
