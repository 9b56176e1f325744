package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
)

func printResult(w io.Writer, result *calculator.Result, group models.Group) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "MEMBER\tOWES\n")
	for _, s := range result.Shares {
		fmt.Fprintf(tw, "%s\t%s\n", memberName(group, s.MemberID), money.Format(s.AmountOwed))
	}
	fmt.Fprintf(tw, "TOTAL\t%s\n", money.Format(result.Sum()))
	tw.Flush()
}

func printGroups(w io.Writer, groups []models.Group) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tMEMBERS\n")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", g.ID, g.Name, len(g.Members))
	}
	tw.Flush()
}

func printMembers(w io.Writer, members []models.Member) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tUSERNAME\n")
	for _, m := range members {
		fmt.Fprintf(tw, "%s\t%s\n", m.ID, m.Username)
	}
	tw.Flush()
}

func printCategories(w io.Writer, categories []models.Category) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\n")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	tw.Flush()
}

func memberName(group models.Group, id models.ID) string {
	if m, ok := group.Member(id); ok && m.Username != "" {
		return m.Username
	}
	return id.String()
}
