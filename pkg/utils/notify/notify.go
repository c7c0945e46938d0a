package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/gcping/pkg/utils/timer"
	fcolor "github.com/fatih/color"
)

// MessageType selects the symbol and colour of a message.
type MessageType int

const (
	// ErrorType is printed red with ✗.
	ErrorType MessageType = iota
	// WarningType is printed yellow with ⚠.
	WarningType
	// ActivityType is printed with ►.
	ActivityType
	// SuccessType is printed green with ✔.
	SuccessType
	// InfoType is printed blue with ℹ.
	InfoType
	// TitleType is printed bold behind an emoji.
	TitleType
)

// Message is a notification shown to the user.
type Message struct {
	Type    MessageType
	Content string
	// Args format Content when set.
	Args []any
	// Timer, when set on a success message, appends stage and total durations.
	Timer timer.Timer
	// Emoji prefixes title messages.
	Emoji string
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

type style struct {
	symbol string
	color  *fcolor.Color
}

func styleFor(msgType MessageType) style {
	switch msgType {
	case ErrorType:
		return style{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case WarningType:
		return style{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case ActivityType:
		return style{symbol: "► ", color: fcolor.New(fcolor.Reset)}
	case SuccessType:
		return style{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case InfoType:
		return style{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	case TitleType:
		return style{color: fcolor.New(fcolor.Reset, fcolor.Bold)}
	default:
		return style{color: fcolor.New(fcolor.Reset)}
	}
}

// Errorf writes an error message.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning message.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes a progress message.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success message.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success message followed by the timer's durations.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Infof writes an informational message.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a stage title.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{Type: TitleType, Content: format, Args: args, Emoji: emoji, Writer: writer})
}

// WriteMessage renders msg. Write errors are reported on stderr and otherwise ignored.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	msgStyle := styleFor(msg.Type)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}

		report(msgStyle.color.Fprintf(writer, "%s %s\n", emoji, content))

		return
	}

	content = indent(content, len([]rune(msgStyle.symbol)))

	report(msgStyle.color.Fprintf(writer, "%s%s\n", msgStyle.symbol, content))

	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		report(msgStyle.color.Fprintf(writer, "⏲ current: %s\n", stage))
		report(msgStyle.color.Fprintf(writer, "  total:  %s\n", total))
	}
}

func report(_ int, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indent aligns continuation lines with the text after the symbol.
func indent(content string, width int) string {
	if width == 0 || !strings.Contains(content, "\n") {
		return content
	}

	padding := strings.Repeat(" ", width)
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = padding + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
