package di

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/do/v2"
)

// IOStreams are the streams commands read from and write to.
//
// Data goes to Out. Progress and logs go to ErrOut, which is resolved here
// rather than from cobra so the error handler's capture of cobra's own error
// output never swallows them.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewStandardIOStreams returns the process's standard streams.
func NewStandardIOStreams() IOStreams {
	return IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

func provideIOStreams(i Injector) error {
	do.Provide(i, func(Injector) (IOStreams, error) {
		return NewStandardIOStreams(), nil
	})

	return nil
}

// WithIOStreams overrides the command streams.
func WithIOStreams(streams IOStreams) Module {
	return func(i Injector) error {
		do.Override(i, func(Injector) (IOStreams, error) {
			return streams, nil
		})

		return nil
	}
}

// ResolveIOStreams retrieves the command streams.
func ResolveIOStreams(injector Injector) (IOStreams, error) {
	streams, err := do.Invoke[IOStreams](injector)
	if err != nil {
		return IOStreams{}, fmt.Errorf("resolve io streams dependency: %w", err)
	}

	return streams, nil
}
