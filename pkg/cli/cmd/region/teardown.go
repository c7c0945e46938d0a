package region

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/helpers"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/cli/ui/confirm"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// ForceFlagName skips the teardown confirmation prompt.
const ForceFlagName = "force"

// NewTeardownCmd creates the region teardown command.
func NewTeardownCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Delete every provisioned instance and release every address",
		Long: `Reconcile against an empty desired set: every instance is deleted and every
reserved address released. On a terminal the command asks for confirmation
unless --force is set.

Unless --emit=false, an empty client config is published afterwards.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	manager := configmanager.NewCommandConfigManager(
		cmd,
		append(configmanager.ReconcileFieldSelectors(), configmanager.EmitFieldSelectors()...),
	)

	var (
		emit  bool
		force bool
	)

	cmd.Flags().BoolVar(&emit, EmitFlagName, true, "Publish the (empty) client config after tearing down")
	cmd.Flags().BoolVar(&force, ForceFlagName, false, "Skip the confirmation prompt")

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithTimer(
		func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
			return HandleTeardownRunE(cmd, injector, tmr, manager, emit, force)
		},
	))

	return cmd
}

// HandleTeardownRunE previews and confirms the teardown, then reconciles against an empty set.
func HandleTeardownRunE(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	manager *configmanager.ConfigManager,
	emit bool,
	force bool,
) error {
	session, err := helpers.NewSession(cmd, injector, manager, tmr)
	if err != nil {
		return err
	}

	var provisioned v1alpha1.RegionSet

	err = setup.RunStage(cmd, session.Progress, tmr, setup.StageInfo{
		Title:         "Observe regions...",
		Emoji:         "🔍",
		Success:       "provisioned regions observed",
		FailurePrefix: "failed to observe regions",
	}, func(ctx context.Context) error {
		var observeErr error

		provisioned, observeErr = helpers.ObserveRegions(ctx, session, nil)

		return observeErr
	})
	if err != nil {
		return err
	}

	if !confirm.ShouldSkipPrompt(force, session.In) {
		confirm.ShowTeardownPreview(session.Progress, confirm.TeardownPreview{
			Project:  session.Config.Project,
			Provider: session.Config.Provider.Kind,
			Regions:  provisioned,
		})

		if !confirm.PromptForConfirmation(session.Progress, session.In) {
			return confirm.ErrTeardownCancelled
		}
	}

	return runReconcile(cmd, injector, session, v1alpha1.RegionSet{}, emit)
}
