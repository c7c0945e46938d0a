package region

import (
	"context"
	"io"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/helpers"
	"github.com/devantler-tech/gcping/pkg/cli/parallel"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/svc/metrics"
	"github.com/devantler-tech/gcping/pkg/svc/reconciler"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// EmitFlagName toggles publishing the client config after a run.
const EmitFlagName = "emit"

const reconcileLongDesc = `Converge the provisioned addresses and ping instances onto the desired regions.

Every desired region gets a reserved static address and a running instance;
provisioned regions that are no longer desired are torn down. Regions are
reconciled concurrently and independently: one region failing never stops the
others. The outcome of every region is printed as a table, and the command
exits non-zero when any region failed or is still pending.

Unless --emit=false, the client config is rendered from the running regions
and handed to the configured publisher afterwards, also after partial failures.

Examples:
  # Reconcile the provider's regions and print the config to stdout
  gcping region reconcile

  # Recreate the instances of two regions with a new image
  gcping region reconcile --image ghcr.io/gcping/ping:v2 --replace fsn1,hel1

  # Dry run against an in-process sandbox persisted between runs
  gcping region reconcile --provider Memory --state-file .gcping-state.json`

// NewReconcileCmd creates the region reconcile command.
func NewReconcileCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "reconcile",
		Short:        "Provision and tear down regions to match the desired set",
		Long:         reconcileLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	manager := configmanager.NewCommandConfigManager(
		cmd,
		append(configmanager.ReconcileFieldSelectors(), configmanager.EmitFieldSelectors()...),
	)

	var emit bool

	cmd.Flags().BoolVar(&emit, EmitFlagName, true, "Publish the client config after reconciling")

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithTimer(
		func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
			return HandleReconcileRunE(cmd, injector, tmr, manager, emit)
		},
	))

	return cmd
}

// HandleReconcileRunE loads the desired regions, reconciles them and optionally publishes the config.
func HandleReconcileRunE(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	manager *configmanager.ConfigManager,
	emit bool,
) error {
	session, err := helpers.NewSession(cmd, injector, manager, tmr)
	if err != nil {
		return err
	}

	var desired v1alpha1.RegionSet

	err = setup.RunStage(cmd, session.Progress, tmr, setup.StageInfo{
		Title:         "Load regions...",
		Emoji:         "🗺️",
		Success:       "desired regions loaded",
		FailurePrefix: "failed to load regions",
	}, func(ctx context.Context) error {
		loaded, err := helpers.LoadDesired(ctx, session)
		if err != nil {
			return err
		}

		desired = loaded

		notify.Activityf(session.Progress, "%d regions desired", len(desired))

		return nil
	})
	if err != nil {
		return err
	}

	return runReconcile(cmd, injector, session, desired, emit)
}

func runReconcile(
	cmd *cobra.Command,
	injector di.Injector,
	session *helpers.Session,
	desired v1alpha1.RegionSet,
	emit bool,
) error {
	recorder, err := di.ResolveMetricsRecorder(injector)
	if err != nil {
		return err
	}

	progress := parallel.NewSyncWriter(session.Progress)

	opts := reconciler.NewOptions(session.Config)
	opts.Logger = session.Logger
	opts.OnResult = func(result reconciler.RegionResult) {
		printResult(progress, result)
	}

	rec := reconciler.New(session.Provisioner, session.Store, opts)

	var report *reconciler.Report

	err = setup.RunStage(cmd, session.Progress, session.Timer, setup.StageInfo{
		Title:         "Reconcile regions...",
		Emoji:         "🚀",
		FailurePrefix: "failed to reconcile regions",
	}, func(ctx context.Context) error {
		var runErr error

		report, runErr = rec.Reconcile(ctx, desired)

		return runErr
	})
	if err != nil {
		recorder.ObserveFailedRun()
		writeMetrics(session, recorder)

		return err
	}

	recorder.ObserveReport(report)

	if report.Plan.Empty() {
		notify.Successf(session.Progress, "no changes, %d regions already converged", len(desired))
	} else {
		err = helpers.RenderResults(session.Out, report)
		if err != nil {
			return err
		}
	}

	if emit {
		err = publishConfig(cmd, injector, session, recorder, desired)
		if err != nil {
			writeMetrics(session, recorder)

			return err
		}
	}

	writeMetrics(session, recorder)

	return summarize(session.Progress, report)
}

func publishConfig(
	cmd *cobra.Command,
	injector di.Injector,
	session *helpers.Session,
	recorder *metrics.Recorder,
	desired v1alpha1.RegionSet,
) error {
	return setup.RunStage(cmd, session.Progress, session.Timer, setup.StageInfo{
		Title:         "Publish config...",
		Emoji:         "📦",
		FailurePrefix: "failed to publish config",
	}, func(ctx context.Context) error {
		regions, err := helpers.ObserveRegions(ctx, session, desired)
		if err != nil {
			return err
		}

		artifact, err := helpers.Publish(ctx, session, injector, regions)
		if err != nil {
			return err
		}

		recorder.ObserveArtifact(artifact)

		notify.Successf(session.Progress, "%s published with %d regions", artifact.Name, len(artifact.Regions))

		return nil
	})
}

func printResult(writer io.Writer, result reconciler.RegionResult) {
	switch result.Outcome {
	case reconciler.OutcomeSuccess:
		notify.Successf(writer, "%s reconciled (%d operations)", result.Region, len(result.Completed))
	case reconciler.OutcomeFailed:
		notify.Errorf(writer, "%s failed: %s", result.Region, result.Reason())
	case reconciler.OutcomePending:
		notify.Warningf(writer, "%s pending: %s", result.Region, result.Reason())
	}
}

func summarize(writer io.Writer, report *reconciler.Report) error {
	if report.Plan.Empty() {
		return nil
	}

	err := report.Err()
	if err != nil {
		notify.Warningf(writer, "%d of %d regions did not converge",
			len(report.Regions(reconciler.OutcomeFailed))+len(report.Regions(reconciler.OutcomePending)),
			len(report.Results))

		return err //nolint:wrapcheck // PartialFailure is reported as-is
	}

	notify.Successf(writer, "%d regions reconciled in run %s", len(report.Results), report.RunID)

	return nil
}

func writeMetrics(session *helpers.Session, recorder *metrics.Recorder) {
	if session.Config.MetricsFile == "" {
		return
	}

	err := recorder.WriteTextfile(session.Config.MetricsFile)
	if err != nil {
		notify.Warningf(session.Progress, "failed to write metrics: %v", err)

		return
	}

	session.Logger.WithField("path", session.Config.MetricsFile).Debug("metrics written")
}
