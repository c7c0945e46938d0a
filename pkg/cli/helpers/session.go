package helpers

import (
	"fmt"
	"io"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/flags"
	"github.com/devantler-tech/gcping/pkg/cli/setup"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/io/configmanager"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/regionstore"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Session holds what a command needs once its configuration is loaded.
//
// Data (tables, artifacts) goes to Out; progress messages and logs go to
// Progress and Logger, both on the error stream, so stdout stays machine-readable.
type Session struct {
	Config      *v1alpha1.Config
	Provisioner provider.Provisioner
	Store       *regionstore.Store
	Logger      *logrus.Logger
	Timer       timer.Timer
	In          io.Reader
	Out         io.Writer
	Progress    io.Writer
}

// NewSession loads the configuration through manager, then builds the logger,
// the provisioner selected by the configuration and the region store.
func NewSession(
	cmd *cobra.Command,
	injector di.Injector,
	manager *configmanager.ConfigManager,
	tmr timer.Timer,
) (*Session, error) {
	streams, err := di.ResolveIOStreams(injector)
	if err != nil {
		return nil, err
	}

	progress := notify.NewStageWriter(streams.ErrOut)

	manager.Writer = progress
	manager.SetConfigFile(flags.ConfigPath(cmd))

	cfg, err := manager.Load(configmanager.LoadOptions{Timer: flags.MaybeTimer(cmd, tmr)})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setup.NewLogger(streams.ErrOut, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	factory, err := di.ResolveProvisionerFactory(injector)
	if err != nil {
		return nil, err
	}

	prov, err := factory.Create(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provisioner: %w", cfg.Provider.Kind, err)
	}

	return &Session{
		Config:      cfg,
		Provisioner: prov,
		Store:       regionstore.NewFromConfig(cfg, prov),
		Logger:      logger,
		Timer:       tmr,
		In:          streams.In,
		Out:         streams.Out,
		Progress:    progress,
	}, nil
}
