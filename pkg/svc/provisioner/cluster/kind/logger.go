package kindprovisioner

import (
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/kind/pkg/log"
)

// streamLogger forwards kind's V(0) messages to a writer so progress shows live.
type streamLogger struct {
	writer io.Writer
}

type noopInfoLogger struct{}

func (noopInfoLogger) Info(string)          {}
func (noopInfoLogger) Infof(string, ...any) {}
func (noopInfoLogger) Enabled() bool        { return false }

func (l *streamLogger) Warn(message string)              { l.write(message) }
func (l *streamLogger) Warnf(format string, args ...any) { l.write(fmt.Sprintf(format, args...)) }
func (l *streamLogger) Error(message string)             { l.write(message) }
func (l *streamLogger) Errorf(format string, args ...any) {
	l.write(fmt.Sprintf(format, args...))
}
func (l *streamLogger) Info(message string)              { l.write(message) }
func (l *streamLogger) Infof(format string, args ...any) { l.write(fmt.Sprintf(format, args...)) }
func (l *streamLogger) Enabled() bool                    { return true }

// V suppresses everything above info level.
func (l *streamLogger) V(level log.Level) log.InfoLogger {
	if level > 0 {
		return noopInfoLogger{}
	}

	return l
}

func (l *streamLogger) write(message string) {
	if l == nil || l.writer == nil {
		return
	}

	if message == "" {
		_, _ = io.WriteString(l.writer, "\n")

		return
	}

	if strings.ContainsRune(message, '\r') || strings.HasSuffix(message, "\n") {
		_, _ = io.WriteString(l.writer, message)

		return
	}

	_, _ = io.WriteString(l.writer, message+"\n")
}
