// Package main is the entry point for gcping.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/devantler-tech/gcping/internal/buildmeta"
	"github.com/devantler-tech/gcping/pkg/cli/cmd"
	"github.com/devantler-tech/gcping/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
)

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(
	args []string,
	runner func([]string, io.Writer) int,
	errWriter io.Writer,
) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			panicMessage := fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack())
			notify.WriteMessage(notify.Message{
				Type:    notify.ErrorType,
				Content: panicMessage,
				Writer:  errWriter,
			})

			exitCode = 1
		}
	}()

	exitCode = runner(args, errWriter)

	return exitCode
}

func runWithArgs(args []string, errWriter io.Writer) int {
	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)

	err := cmd.Execute(rootCmd)
	if err != nil {
		if !errorhandler.Silent(err) {
			notify.Errorf(errWriter, "%v", err)
		}

		return errorhandler.ExitCode(err)
	}

	return 0
}
