package errorhandler_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/devantler-tech/gcping/pkg/cli/ui/errorhandler"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTestBoom        = errors.New("boom")
	errOriginalFailure = errors.New("original failure")
	errBoomOriginal    = errors.New("boom: original failure")
	errWrapped         = errors.New("wrapped")
)

func TestExecutorExecuteSuccess(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:  "test",
		RunE: func(_ *cobra.Command, _ []string) error { return nil },
	}

	require.NoError(t, errorhandler.NewExecutor().Execute(cmd))
}

func TestExecutorExecuteNilCommand(t *testing.T) {
	t.Parallel()

	require.NoError(t, errorhandler.NewExecutor().Execute(nil))
}

func TestExecutorExecuteInvalidSubcommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "gcping"}
	root.AddCommand(&cobra.Command{Use: "region"})
	root.SetArgs([]string{"regoin"})

	err := errorhandler.NewExecutor().Execute(root)
	require.Error(t, err)

	message := err.Error()
	assert.Contains(t, message, `unknown command "regoin" for "gcping"`)
	assert.NotContains(t, message, "Error: ")
	assert.Contains(t, message, "Run 'gcping --help' for usage.")
}

func TestCommandErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		printed  string
		cause    error
		expected string
	}{
		{
			name:     "cause only when nothing printed",
			cause:    errTestBoom,
			expected: "boom",
		},
		{
			name:     "message and cause concatenated when distinct",
			printed:  "normalized",
			cause:    errOriginalFailure,
			expected: "normalized: original failure",
		},
		{
			name:     "message kept when it already includes cause",
			printed:  "boom: original failure",
			cause:    errBoomOriginal,
			expected: "boom: original failure",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{
				Use:           "test",
				SilenceErrors: true,
				SilenceUsage:  true,
				RunE: func(cmd *cobra.Command, _ []string) error {
					if testCase.printed != "" {
						cmd.PrintErrln(testCase.printed)
					}

					return testCase.cause
				},
			}

			err := errorhandler.NewExecutor().Execute(cmd)

			var cmdErr *errorhandler.CommandError
			require.ErrorAs(t, err, &cmdErr)
			assert.Equal(t, testCase.expected, cmdErr.Error())
		})
	}
}

func TestCommandErrorZeroValues(t *testing.T) {
	t.Parallel()

	var nilErr *errorhandler.CommandError

	assert.Empty(t, nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
	assert.Empty(t, (&errorhandler.CommandError{}).Error())
}

func TestCommandErrorUnwrap(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:  "test",
		RunE: func(_ *cobra.Command, _ []string) error { return errWrapped },
	}

	err := errorhandler.NewExecutor().Execute(cmd)
	require.ErrorIs(t, err, errWrapped)
}

func TestDefaultNormalizerNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "blank input", input: "   \n\t  ", expected: ""},
		{name: "strips prefix and trims", input: "  Error: something bad \nRun help\n", expected: "something bad\nRun help"},
		{name: "leaves other lines alone", input: "plain\nError: nested", expected: "plain\nError: nested"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, errorhandler.DefaultNormalizer{}.Normalize(testCase.input))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: 0},
		{name: "plain error", err: errTestBoom, expected: 1},
		{name: "exit error", err: &errorhandler.ExitError{Code: 3}, expected: 3},
		{name: "wrapped exit error", err: fmt.Errorf("run: %w", &errorhandler.ExitError{Code: 2, Cause: errTestBoom}), expected: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, errorhandler.ExitCode(testCase.err))
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("reconcile: %w", &errorhandler.ExitError{Code: 1, Cause: errWrapped})

	assert.True(t, errorhandler.Silent(err))
	assert.False(t, errorhandler.Silent(errWrapped))
	require.ErrorIs(t, err, errWrapped)
	assert.Equal(t, "exit status 4", (&errorhandler.ExitError{Code: 4}).Error())
}
