// Package config provides the client config commands.
package config

import (
	"fmt"

	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the parent config command.
func NewConfigCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Render the client config and describe the gcping configuration",
		Args:         cobra.NoArgs,
		RunE:         handleConfigRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewEmitCmd(runtimeContainer))
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}

func handleConfigRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying config command help: %w", err)
	}

	return nil
}
