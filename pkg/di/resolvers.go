package di

import (
	"fmt"

	"github.com/devantler-tech/gcping/pkg/svc/emitter"
	"github.com/devantler-tech/gcping/pkg/svc/metrics"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// ResolveTimer retrieves the timer dependency.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveProvisionerFactory retrieves the provisioner factory dependency.
func ResolveProvisionerFactory(injector Injector) (provider.Factory, error) {
	factory, err := do.Invoke[provider.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve provisioner factory dependency: %w", err)
	}

	return factory, nil
}

// ResolvePublisherFactory retrieves the publisher factory dependency.
func ResolvePublisherFactory(injector Injector) (emitter.PublisherFactory, error) {
	factory, err := do.Invoke[emitter.PublisherFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve publisher factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveMetricsRecorder retrieves the metrics recorder dependency.
func ResolveMetricsRecorder(injector Injector) (*metrics.Recorder, error) {
	recorder, err := do.Invoke[*metrics.Recorder](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve metrics recorder dependency: %w", err)
	}

	return recorder, nil
}

// WithTimer decorates a handler to resolve and start the timer.
func WithTimer(
	handler func(cmd *cobra.Command, injector Injector, tmr timer.Timer) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		tmr, err := ResolveTimer(injector)
		if err != nil {
			return err
		}

		tmr.Start()

		return handler(cmd, injector, tmr)
	}
}
