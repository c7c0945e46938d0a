// Package region provides the region lifecycle commands.
package region

import (
	"fmt"

	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/spf13/cobra"
)

// NewRegionCmd creates the parent region command and wires its subcommands.
func NewRegionCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region",
		Short: "Manage the serving regions",
		Long: `Inspect the desired region set and converge the provisioned ` +
			`addresses and ping instances onto it.`,
		Args:         cobra.NoArgs,
		RunE:         handleRegionRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewListCmd(runtimeContainer))
	cmd.AddCommand(NewAddressesCmd(runtimeContainer))
	cmd.AddCommand(NewPlanCmd(runtimeContainer))
	cmd.AddCommand(NewReconcileCmd(runtimeContainer))
	cmd.AddCommand(NewTeardownCmd(runtimeContainer))

	return cmd
}

func handleRegionRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying region command help: %w", err)
	}

	return nil
}
