package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/submitter"
)

var (
	computeFlags   splitFlags
	computeMembers []string
	computeGroupID string
)

// computeCmd previews a split without submitting it
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Preview how an expense splits",
	Long: `Compute each member's share without recording anything.
Members come from --members for an offline preview, or from --group.`,
	Example: `  splitctl compute --members alice,bob,carol --total 100
  splitctl compute --members a,b --split manual --total 10 --amount a=6 --amount b=4
  splitctl compute --group 3 --split itemized --total 10 --item "Milk:4:1,2" --item "Bread:6:1"`,
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeFlags.register(computeCmd)
	computeCmd.Flags().StringSliceVar(&computeMembers, "members", nil, "comma-separated member ids, in group order")
	computeCmd.Flags().StringVar(&computeGroupID, "group", "", "fetch members from this group")
	computeCmd.MarkFlagsMutuallyExclusive("members", "group")
}

func runCompute(cmd *cobra.Command, args []string) error {
	group, err := computeGroup(cmd)
	if err != nil {
		return err
	}

	form, err := computeFlags.form()
	if err != nil {
		return err
	}
	if strings.TrimSpace(form.Description) == "" {
		form.Description = "preview"
	}

	result, err := submitter.Preview(form, group)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), result, group)
	return nil
}

func computeGroup(cmd *cobra.Command) (models.Group, error) {
	if computeGroupID != "" {
		client, err := newClient()
		if err != nil {
			return models.Group{}, err
		}
		group, err := client.GetGroup(cmd.Context(), models.ID(computeGroupID))
		if err != nil {
			return models.Group{}, err
		}
		return *group, nil
	}

	if len(computeMembers) == 0 {
		return models.Group{}, errors.New("either --members or --group is required")
	}
	group := models.Group{Name: "preview"}
	for _, id := range computeMembers {
		id = strings.TrimSpace(id)
		group.Members = append(group.Members, models.Member{ID: models.ID(id), Username: id})
	}
	return group, nil
}
