// Package setup runs the stages of a gcping command and prepares the
// loggers they share.
package setup

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/gcping/pkg/cli/flags"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

// StageInfo contains display information for a command stage.
// Blank lines between stages are inserted by notify.StageWriter.
type StageInfo struct {
	Title         string
	Emoji         string
	Activity      string
	Success       string
	FailurePrefix string
}

// RunStage executes action as one stage of cmd:
// it starts a timer stage, prints the title and activity to out, runs the
// action and prints the success message, with timing when --timing is set.
func RunStage(
	cmd *cobra.Command,
	out io.Writer,
	tmr timer.Timer,
	info StageInfo,
	action func(context.Context) error,
) error {
	if tmr != nil {
		tmr.NewStage()
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: info.Title,
		Emoji:   info.Emoji,
		Writer:  out,
	})

	if info.Activity != "" {
		notify.WriteMessage(notify.Message{
			Type:    notify.ActivityType,
			Content: info.Activity,
			Writer:  out,
		})
	}

	err := action(cmd.Context())
	if err != nil {
		if info.FailurePrefix == "" {
			return err
		}

		return fmt.Errorf("%s: %w", info.FailurePrefix, err)
	}

	if info.Success != "" {
		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: info.Success,
			Timer:   flags.MaybeTimer(cmd, tmr),
			Writer:  out,
		})
	}

	return nil
}
