package di

import (
	"github.com/devantler-tech/gcping/pkg/svc/emitter"
	"github.com/devantler-tech/gcping/pkg/svc/metrics"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provisioner"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/samber/do/v2"
)

// NewRuntime constructs the runtime used by the root command and tests.
// It registers the io streams, the timer, the provisioner factory, the publisher factory and
// the metrics recorder, followed by overrides.
func NewRuntime(overrides ...Module) *Runtime {
	modules := []Module{
		provideIOStreams,
		provideTimer,
		provideProvisionerFactory,
		providePublisherFactory,
		provideMetricsRecorder,
	}

	return New(append(modules, overrides...)...)
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideProvisionerFactory(i Injector) error {
	do.Provide(i, func(Injector) (provider.Factory, error) {
		return provisioner.DefaultFactory{}, nil
	})

	return nil
}

func providePublisherFactory(i Injector) error {
	do.Provide(i, func(Injector) (emitter.PublisherFactory, error) {
		return emitter.DefaultPublisherFactory, nil
	})

	return nil
}

func provideMetricsRecorder(i Injector) error {
	do.Provide(i, func(Injector) (*metrics.Recorder, error) {
		return metrics.NewRecorder(), nil
	})

	return nil
}

// WithProvisionerFactory overrides the provisioner factory, e.g. with a shared sandbox in tests.
func WithProvisionerFactory(factory provider.Factory) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (provider.Factory, error) {
			return factory, nil
		})

		return nil
	}
}

// WithPublisherFactory overrides the publisher factory.
func WithPublisherFactory(factory emitter.PublisherFactory) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (emitter.PublisherFactory, error) {
			return factory, nil
		})

		return nil
	}
}
