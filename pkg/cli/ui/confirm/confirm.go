// Package confirm gates destructive operations behind a y/N prompt.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/devantler-tech/argoboot/pkg/utils/notify"
	"golang.org/x/term"
)

// ResetPreview lists what a reset removes.
type ResetPreview struct {
	ClusterName  string
	Distribution string
	Files        []string
	ConfigDir    string
}

// Test override variables with mutexes for thread safety.
var (
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderOverride io.Reader

	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerOverride func() bool
)

// SetStdinReaderForTests overrides the stdin reader for testing.
// Returns a restore function that should be called to reset the override.
func SetStdinReaderForTests(reader io.Reader) func() {
	stdinReaderMu.Lock()

	previous := stdinReaderOverride
	stdinReaderOverride = reader

	stdinReaderMu.Unlock()

	return func() {
		stdinReaderMu.Lock()
		stdinReaderOverride = previous
		stdinReaderMu.Unlock()
	}
}

// SetTTYCheckerForTests overrides the TTY checker for testing.
// Returns a restore function that should be called to reset the override.
func SetTTYCheckerForTests(checker func() bool) func() {
	ttyCheckerMu.Lock()

	previous := ttyCheckerOverride
	ttyCheckerOverride = checker

	ttyCheckerMu.Unlock()

	return func() {
		ttyCheckerMu.Lock()
		ttyCheckerOverride = previous
		ttyCheckerMu.Unlock()
	}
}

func getStdinReader() io.Reader {
	stdinReaderMu.RLock()
	defer stdinReaderMu.RUnlock()

	if stdinReaderOverride != nil {
		return stdinReaderOverride
	}

	return os.Stdin
}

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool {
	ttyCheckerMu.RLock()

	override := ttyCheckerOverride

	ttyCheckerMu.RUnlock()

	if override != nil {
		return override()
	}

	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// ShowResetPreview prints what a reset will remove.
func ShowResetPreview(writer io.Writer, preview ResetPreview) {
	notify.Warningf(writer, "The following will be removed if present:")

	var text strings.Builder

	fmt.Fprintf(&text, "  Cluster:  %s (%s)\n", preview.ClusterName, preview.Distribution)
	text.WriteString("  Port-forwards to the Argo CD server")

	for _, file := range preview.Files {
		fmt.Fprintf(&text, "\n  File:     %s", file)
	}

	if preview.ConfigDir != "" {
		fmt.Fprintf(&text, "\n  Argo CD CLI config: %s", preview.ConfigDir)
	}

	notify.Infof(writer, "%s", text.String())
}

// PromptYesNo asks question and reports whether the answer was "y" or "Y". Anything
// else, including no input, declines. A warning is printed when stdin is not a terminal.
func PromptYesNo(writer io.Writer, question string) bool {
	if !IsTTY() {
		notify.Warningf(writer, "stdin is not a terminal, reading the answer from it anyway")
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: question + " [y/N]: ",
		Writer:  writer,
	})

	reader := bufio.NewReader(getStdinReader())

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}

	input = strings.TrimSpace(input)

	return input == "y" || input == "Y"
}
