package config

import (
	"fmt"

	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the config schema command.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of gcping.yaml",
		Long: `Print the JSON schema of the gcping configuration file.

Point your editor at it for completion and validation, e.g. with
# yaml-language-server: $schema=./gcping.schema.json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := configmanager.SchemaJSON()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			if err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}

			return nil
		},
	}
}
