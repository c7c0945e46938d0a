package region

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/helpers"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

const listLongDesc = `List the desired regions with their observed address and status.

Regions are read from the provider's location list or from --regions-file,
filtered by --include/--exclude. Regions that are provisioned but no longer
desired are listed too.

Examples:
  # List regions from the provider
  gcping region list

  # List regions from a static file
  gcping region list --source File --regions-file regions.yaml`

// NewListCmd creates the region list command.
func NewListCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List regions and their status",
		Long:         listLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	manager := configmanager.NewCommandConfigManager(cmd, configmanager.RegionFieldSelectors())

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithTimer(
		func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
			return HandleListRunE(cmd, injector, tmr, manager)
		},
	))

	return cmd
}

// HandleListRunE observes the regions and prints them as a table.
func HandleListRunE(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	manager *configmanager.ConfigManager,
) error {
	session, err := helpers.NewSession(cmd, injector, manager, tmr)
	if err != nil {
		return err
	}

	var regions v1alpha1.RegionSet

	err = setup.RunStage(cmd, session.Progress, tmr, setup.StageInfo{
		Title:         "Observe regions...",
		Emoji:         "🔍",
		Activity:      "reading desired and provisioned regions",
		Success:       "regions observed",
		FailurePrefix: "failed to observe regions",
	}, func(ctx context.Context) error {
		desired, err := helpers.LoadDesired(ctx, session)
		if err != nil {
			return err
		}

		regions, err = helpers.ObserveRegions(ctx, session, desired)

		return err
	})
	if err != nil {
		return err
	}

	return helpers.RenderRegions(session.Out, regions)
}
