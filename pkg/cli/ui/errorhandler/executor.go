// Package errorhandler runs cobra commands and turns their failures into
// user-facing messages and process exit codes.
package errorhandler

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Executor runs a cobra command, capturing what cobra prints on stderr so the
// caller can show a single normalized error.
type Executor struct {
	normalizer DefaultNormalizer
}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs cmd. It returns nil on success, otherwise a *CommandError
// carrying the normalized stderr output and the original error.
func (e *Executor) Execute(cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.Execute()
	if err == nil {
		return nil
	}

	return &CommandError{
		message: e.normalizer.Normalize(errBuf.String()),
		cause:   err,
	}
}

// CommandError is a command failure with cobra's normalized stderr output.
type CommandError struct {
	message string
	cause   error
}

func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// DefaultNormalizer cleans up cobra's stderr output.
type DefaultNormalizer struct{}

// Normalize trims whitespace and drops cobra's "Error:" prefix while keeping usage hints.
func (DefaultNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}

// ExitCoder is implemented by errors that choose their process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitError is a failure whose details were already shown to the user.
// main exits with Code without printing the error again.
type ExitError struct {
	Code  int
	Cause error
}

func (e *ExitError) Error() string {
	if e.Cause == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}

	return e.Cause.Error()
}

// Unwrap exposes the underlying cause.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// ExitCode returns Code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Silent reports whether err was already reported to the user.
func Silent(err error) bool {
	var exitErr *ExitError

	return errors.As(err, &exitErr)
}

// ExitCode maps err to a process exit code: 0 for nil, the code chosen by an
// ExitCoder in the chain, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return 1
}
