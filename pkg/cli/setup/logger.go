package setup

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger writing text records to out at level.
// Each command gets its own logger so parallel runs never share global state.
func NewLogger(out io.Writer, level string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(parsed)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	return logger, nil
}
