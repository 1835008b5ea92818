package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/argoboot/pkg/timer"
	fcolor "github.com/fatih/color"
)

// MessageType selects symbol and colour of a message.
type MessageType int

const (
	// ErrorType is red with ✗.
	ErrorType MessageType = iota
	// WarningType is yellow with ⚠.
	WarningType
	// ActivityType is uncoloured with ►.
	ActivityType
	// SuccessType is green with ✔ and may carry timing.
	SuccessType
	// InfoType is blue with ℹ.
	InfoType
	// HintType is cyan with → and is used for commands the user should run by hand.
	HintType
	// TitleType is bold and led by an emoji.
	TitleType
)

// Message is a single notification.
type Message struct {
	Type    MessageType
	Content string
	Args    []any
	// Timer, when set on a SuccessType message, appends stage and total durations.
	Timer timer.Timer
	// Emoji leads TitleType messages.
	Emoji string
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

type style struct {
	symbol string
	color  *fcolor.Color
}

// Errorf writes an error line.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning line.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes an in-progress line.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success line.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success line followed by the timer's stage and total durations.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Infof writes an informational line.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Hintf writes a line describing something the user can do manually.
func Hintf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: HintType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a stage title.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// WriteMessage renders msg. Write failures are reported on stderr and otherwise ignored.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	st := styleFor(msg.Type)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}

		report(st.color.Fprintf(msg.Writer, "%s %s\n", emoji, content))

		return
	}

	content = indentContinuation(content, st.symbol)
	report(st.color.Fprintf(msg.Writer, "%s%s\n", st.symbol, content))

	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		report(st.color.Fprintf(msg.Writer, "⏲ current: %s\n", stage.String()))
		report(st.color.Fprintf(msg.Writer, "  total:  %s\n", total.String()))
	}
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
	case HintType:
		return style{symbol: "→ ", color: fcolor.New(fcolor.FgCyan)}
	case TitleType:
		return style{color: fcolor.New(fcolor.Reset, fcolor.Bold)}
	default:
		return style{color: fcolor.New(fcolor.Reset)}
	}
}

func report(_ int, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indentContinuation aligns the second and later lines under the first line's text.
func indentContinuation(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	pad := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
