package flags

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/gcping/pkg/utils/timer"
	"github.com/spf13/cobra"
)

const (
	// TimingFlagName is the persistent flag enabling per-stage timing output.
	TimingFlagName = "timing"
	// ConfigFlagName is the persistent flag selecting an explicit config file.
	ConfigFlagName = "config"
)

// ErrNilCommand is returned when a flag is looked up on a nil command.
var ErrNilCommand = errors.New("command is nil")

// ErrFlagNotFound is returned when the command has no such flag.
var ErrFlagNotFound = errors.New("flag not found")

// IsTimingEnabled reports whether --timing is set on cmd or inherited from a parent.
func IsTimingEnabled(cmd *cobra.Command) (bool, error) {
	if cmd == nil {
		return false, ErrNilCommand
	}

	flag := cmd.Flags().Lookup(TimingFlagName)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(TimingFlagName)
	}

	if flag == nil {
		return false, fmt.Errorf("%w: %s", ErrFlagNotFound, TimingFlagName)
	}

	return flag.Value.String() == "true", nil
}

// MaybeTimer returns tmr when timing output is enabled, otherwise nil.
func MaybeTimer(cmd *cobra.Command, tmr timer.Timer) timer.Timer {
	if tmr == nil {
		return nil
	}

	enabled, err := IsTimingEnabled(cmd)
	if err != nil || !enabled {
		return nil
	}

	return tmr
}

// ConfigPath returns the value of --config, or the empty string when unset.
func ConfigPath(cmd *cobra.Command) string {
	if cmd == nil {
		return ""
	}

	flag := cmd.Flags().Lookup(ConfigFlagName)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(ConfigFlagName)
	}

	if flag == nil {
		return ""
	}

	return flag.Value.String()
}
