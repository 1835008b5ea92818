// Package logging configures the process-wide logrus logger.
//
// User-facing progress goes through notify; logrus carries diagnostics (debug
// traces of external commands, probe attempts, swallowed idempotency errors) and
// the output of the linked k3d library, which logs through the logrus standard logger.
package logging

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var configureMu sync.Mutex //nolint:gochecknoglobals // guards the logrus standard logger

// Configure points the standard logrus logger at writer. Verbose enables debug level.
func Configure(writer io.Writer, verbose bool) {
	configureMu.Lock()
	defer configureMu.Unlock()

	logrus.SetOutput(writer)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)

		return
	}

	logrus.SetLevel(logrus.InfoLevel)
}

// For returns an entry tagged with the given component name.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
