// Package confirm provides confirmation prompt utilities for destructive operations.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/utils/notify"
	"golang.org/x/term"
)

// ErrTeardownCancelled is returned when the user declines a teardown.
var ErrTeardownCancelled = errors.New("teardown cancelled")

// TeardownPreview lists what a teardown removes.
type TeardownPreview struct {
	Project  string
	Provider v1alpha1.Provider
	// Regions are the provisioned regions; each loses its instance and address.
	Regions v1alpha1.RegionSet
}

// IsTTY reports whether in is a terminal.
// Prompts are skipped in non-interactive environments (CI/pipelines).
func IsTTY(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}

// ShouldSkipPrompt reports whether the prompt is skipped: when force is set or in is not a terminal.
func ShouldSkipPrompt(force bool, in io.Reader) bool {
	return force || !IsTTY(in)
}

// ShowTeardownPreview prints the regions a teardown removes.
func ShowTeardownPreview(writer io.Writer, preview TeardownPreview) {
	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: "The following resources will be deleted:",
		Writer:  writer,
	})

	var previewText strings.Builder

	fmt.Fprintf(&previewText, "  Project:  %s\n", preview.Project)
	fmt.Fprintf(&previewText, "  Provider: %s", preview.Provider)

	if len(preview.Regions) == 0 {
		previewText.WriteString("\n  Regions:  none")
	} else {
		previewText.WriteString("\n  Regions:")

		for _, region := range preview.Regions {
			address := region.Address
			if address == "" {
				address = "no address"
			}

			fmt.Fprintf(&previewText, "\n    - %s (%s, %s)", region.ID, address, region.Status)
		}
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: previewText.String(),
		Writer:  writer,
	})
}

// PromptForConfirmation asks the user to type "yes" on in.
// Returns true only if the answer is "yes" (case-insensitive).
func PromptForConfirmation(writer io.Writer, in io.Reader) bool {
	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: `Type "yes" to confirm teardown: `,
		Writer:  writer,
	})

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(input), "yes")
}
