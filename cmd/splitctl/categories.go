package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List expense categories",
	Long:  `List the categories an expense can be filed under. Pass the id to --category when submitting.`,
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	categories, err := client.ListCategories(cmd.Context())
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
		return nil
	}
	printCategories(cmd.OutOrStdout(), categories)
	return nil
}
