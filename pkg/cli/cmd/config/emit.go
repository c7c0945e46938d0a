package config

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/cli/helpers"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

const emitLongDesc = `Render the client config from the regions that are running now and
publish it, without provisioning anything.

Only regions whose instance is running are included, ordered by region ID.
Rendering the same state twice yields identical bytes.

Examples:
  # Print config.json to stdout
  gcping config emit

  # Write config.js for the static client page
  gcping config emit --format JS --publisher File --output-dir ./web

  # Upload to a public bucket
  gcping config emit --publisher GCS --bucket gcping-web`

// NewEmitCmd creates the config emit command.
func NewEmitCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "emit",
		Short:        "Render and publish the client config",
		Long:         emitLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	manager := configmanager.NewCommandConfigManager(
		cmd,
		append(configmanager.RegionFieldSelectors(), configmanager.EmitFieldSelectors()...),
	)

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithTimer(
		func(cmd *cobra.Command, injector di.Injector, tmr timer.Timer) error {
			return HandleEmitRunE(cmd, injector, tmr, manager)
		},
	))

	return cmd
}

// HandleEmitRunE observes the regions and publishes the rendered config.
func HandleEmitRunE(
	cmd *cobra.Command,
	injector di.Injector,
	tmr timer.Timer,
	manager *configmanager.ConfigManager,
) error {
	session, err := helpers.NewSession(cmd, injector, manager, tmr)
	if err != nil {
		return err
	}

	recorder, err := di.ResolveMetricsRecorder(injector)
	if err != nil {
		return err
	}

	return setup.RunStage(cmd, session.Progress, tmr, setup.StageInfo{
		Title:         "Publish config...",
		Emoji:         "📦",
		FailurePrefix: "failed to publish config",
	}, func(ctx context.Context) error {
		desired, err := helpers.LoadDesired(ctx, session)
		if err != nil {
			return err
		}

		regions, err := helpers.ObserveRegions(ctx, session, desired)
		if err != nil {
			return err
		}

		artifact, err := helpers.Publish(ctx, session, injector, regions)
		if err != nil {
			return err
		}

		recorder.ObserveArtifact(artifact)

		notify.Successf(session.Progress, "%s published with %d regions (sha256 %s)",
			artifact.Name, len(artifact.Regions), artifact.Digest)

		if session.Config.MetricsFile != "" {
			err = recorder.WriteTextfile(session.Config.MetricsFile)
			if err != nil {
				notify.Warningf(session.Progress, "failed to write metrics: %v", err)
			}
		}

		return nil
	})
}
