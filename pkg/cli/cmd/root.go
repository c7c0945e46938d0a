package cmd

import (
	"fmt"

	configcmd "github.com/devantler-tech/gcping/pkg/cli/cmd/config"
	"github.com/devantler-tech/gcping/pkg/cli/cmd/region"
	"github.com/devantler-tech/gcping/pkg/cli/flags"
	"github.com/devantler-tech/gcping/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(di.NewRuntime(), version, commit, date)
}

// NewRootCmdWithRuntime creates the root command on top of runtimeContainer.
func NewRootCmdWithRuntime(runtimeContainer *di.Runtime, version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcping",
		Short: "gcping deploys ping endpoints to many regions and publishes where to reach them",
		Long: `gcping maintains the set of regions serving the ping endpoint, the static
address of each region, and the client config listing the running regions.`,
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().String(
		flags.ConfigFlagName,
		"",
		"Path to the config file (default: gcping.yaml in . or $HOME/.config/gcping)",
	)
	cmd.PersistentFlags().Bool(
		flags.TimingFlagName,
		false,
		"Show per-stage timing output",
	)

	cmd.AddCommand(region.NewRegionCmd(runtimeContainer))
	cmd.AddCommand(configcmd.NewConfigCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// Help only fails when the output stream does.
	_ = cmd.Help()

	return nil
}
