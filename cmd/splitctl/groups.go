package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharesplit/internal/models"
)

var groupMemberIDs []string

// groupsCmd lists the caller's groups
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List and manage groups",
	RunE:  runGroupsList,
}

var groupsShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group and its members",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsShow,
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group; you are added automatically",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsCreate,
}

var groupsBalancesCmd = &cobra.Command{
	Use:   "balances <group-id>",
	Short: "Show net balances and who should pay whom",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsBalances,
}

var groupsSearchCmd = &cobra.Command{
	Use:   "search [username]",
	Short: "Find users to add to a group",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGroupsSearch,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsShowCmd)
	groupsCmd.AddCommand(groupsCreateCmd)
	groupsCmd.AddCommand(groupsBalancesCmd)
	groupsCmd.AddCommand(groupsSearchCmd)

	groupsCreateCmd.Flags().StringSliceVarP(&groupMemberIDs, "member", "m", nil, "member ids to add (repeatable or comma-separated)")
}

func runGroupsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	groups, err := client.ListGroups(cmd.Context())
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No groups yet.")
		return nil
	}
	printGroups(cmd.OutOrStdout(), groups)
	return nil
}

func runGroupsShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	group, err := client.GetGroup(cmd.Context(), models.ID(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", group.Name, group.ID)
	printMembers(cmd.OutOrStdout(), group.Members)
	return nil
}

func runGroupsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	group, err := client.CreateGroup(cmd.Context(), args[0], models.IDs(groupMemberIDs...))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Group %q created (id %s) with %d members.\n", group.Name, group.ID, len(group.Members))
	return nil
}

func runGroupsBalances(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	groupID := models.ID(args[0])

	group, err := client.GetGroup(cmd.Context(), groupID)
	if err != nil {
		return err
	}
	balances, err := client.GroupBalances(cmd.Context(), groupID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "MEMBER\tPAID\tOWES\tNET\n")
	for _, b := range balances.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", memberName(*group, b.User), b.TotalPaid, b.TotalOwed, b.NetBalance)
	}
	tw.Flush()

	if len(balances.Debts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nEveryone is settled up.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout())
	for _, d := range balances.Debts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s pays %s %s\n", memberName(*group, d.From), memberName(*group, d.To), d.Amount)
	}
	return nil
}

func runGroupsSearch(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	members, err := client.SearchMembers(cmd.Context(), query)
	if err != nil {
		return err
	}
	printMembers(cmd.OutOrStdout(), members)
	return nil
}
