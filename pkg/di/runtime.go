// Package di wires gcping's services with samber/do.
//
// Commands receive a fresh injector per invocation; modules register the
// providers and handlers resolve what they need.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency container handed to modules and handlers.
type Injector = do.Injector

// Module registers providers with an injector.
type Module func(Injector) error

// Runtime builds an injector from its base modules for every invocation.
type Runtime struct {
	modules []Module
}

// New creates a Runtime with the given base modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke creates an injector, applies the base modules followed by extra, runs
// handler and shuts the injector down. Nil modules are skipped.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()

	defer func() {
		_ = injector.Shutdown()
	}()

	for _, module := range append(append([]Module{}, r.modules...), extra...) {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts a handler to cobra's RunE, running it inside rt.
func RunEWithRuntime(
	rt *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return rt.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		})
	}
}
