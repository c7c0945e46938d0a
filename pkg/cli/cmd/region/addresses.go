package region

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/cli/helpers"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/client/netretry"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewAddressesCmd creates the region addresses command.
func NewAddressesCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "addresses",
		Short:        "List reserved static addresses",
		Long:         "List the static addresses currently reserved for each region.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	manager := configmanager.NewCommandConfigManager(cmd, configmanager.CommonFieldSelectors())

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithTimer(
		func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
			return HandleAddressesRunE(cmd, injector, tmr, manager)
		},
	))

	return cmd
}

// HandleAddressesRunE prints the reserved addresses.
func HandleAddressesRunE(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	manager *configmanager.ConfigManager,
) error {
	session, err := helpers.NewSession(cmd, injector, manager, tmr)
	if err != nil {
		return err
	}

	var addresses map[string]string

	err = setup.RunStage(cmd, session.Progress, tmr, setup.StageInfo{
		Title:         "List addresses...",
		Emoji:         "📍",
		Success:       "addresses listed",
		FailurePrefix: "failed to list addresses",
	}, func(ctx context.Context) error {
		return netretry.Retry(ctx, session.RetryPolicy(), provider.IsUnavailable, func(ctx context.Context) error {
			listed, err := session.Store.Addresses(ctx)
			if err != nil {
				return err //nolint:wrapcheck // Wrapped by the stage
			}

			addresses = listed

			return nil
		})
	})
	if err != nil {
		return err
	}

	return helpers.RenderAddresses(session.Out, addresses)
}
