package region

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/cli/helpers"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/svc/reconciler"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the region plan command.
func NewPlanCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the operations a reconcile would apply",
		Long: `Compute the deployment plan for the desired regions without applying it.

Operations are listed per region in the order they would run.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	manager := configmanager.NewCommandConfigManager(cmd, configmanager.ReconcileFieldSelectors())

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithTimer(
		func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
			return HandlePlanRunE(cmd, injector, tmr, manager)
		},
	))

	return cmd
}

// HandlePlanRunE prints the deployment plan.
func HandlePlanRunE(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	manager *configmanager.ConfigManager,
) error {
	session, err := helpers.NewSession(cmd, injector, manager, tmr)
	if err != nil {
		return err
	}

	var plan reconciler.DeploymentPlan

	err = setup.RunStage(cmd, session.Progress, tmr, setup.StageInfo{
		Title:         "Plan regions...",
		Emoji:         "📝",
		Success:       "plan computed",
		FailurePrefix: "failed to plan regions",
	}, func(ctx context.Context) error {
		desired, err := helpers.LoadDesired(ctx, session)
		if err != nil {
			return err
		}

		opts := reconciler.NewOptions(session.Config)
		opts.Logger = session.Logger

		plan, err = reconciler.New(session.Provisioner, session.Store, opts).Plan(ctx, desired)

		return err //nolint:wrapcheck // Wrapped by the stage
	})
	if err != nil {
		return err
	}

	if plan.Empty() {
		notify.Successf(session.Progress, "no changes, regions are converged")

		return nil
	}

	notify.Infof(session.Progress, "%d operations in %d regions", plan.Len(), len(plan.Regions))

	return helpers.RenderPlan(session.Out, plan)
}
