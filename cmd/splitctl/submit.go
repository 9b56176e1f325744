package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/submitter"
)

var (
	submitFlags   splitFlags
	submitGroupID string
)

// submitCmd records a shared expense
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record a shared expense in a group",
	Long: `Fetch the group, compute the split and send it to the expense API once.
Nothing is sent when the split does not validate.`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitFlags.register(submitCmd)
	submitCmd.Flags().StringVarP(&submitGroupID, "group", "g", "", "group id")
	_ = submitCmd.MarkFlagRequired("group")
	_ = submitCmd.MarkFlagRequired("description")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	form, err := submitFlags.form()
	if err != nil {
		return err
	}

	group, err := client.GetGroup(cmd.Context(), models.ID(submitGroupID))
	if err != nil {
		return err
	}

	sub, err := submitter.New(client, logger).Submit(cmd.Context(), form, *group)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, sub.Result, *group)
	if sub.Created.ID.IsZero() {
		fmt.Fprintln(out, "Shared expense added.")
	} else {
		fmt.Fprintf(out, "Shared expense added (id %s).\n", sub.Created.ID)
	}
	return nil
}
