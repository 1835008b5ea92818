package notify

import (
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StageSeparatingWriter inserts a blank line before every title line (a line led by
// a pictographic emoji) once something has already been written.
//
//	out := notify.NewStageSeparatingWriter(cmd.OutOrStdout())
//	notify.Titlef(out, "🚀", "Create cluster...")
type StageSeparatingWriter struct {
	mu         sync.Mutex
	underlying io.Writer
	hasWritten bool
}

// NewStageSeparatingWriter wraps underlying.
func NewStageSeparatingWriter(underlying io.Writer) *StageSeparatingWriter {
	return &StageSeparatingWriter{underlying: underlying}
}

// Write implements io.Writer.
func (w *StageSeparatingWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.hasWritten && isTitle(data) {
		_, err := w.underlying.Write([]byte{'\n'})
		if err != nil {
			return 0, fmt.Errorf("write stage separator: %w", err)
		}
	}

	n, err := w.underlying.Write(data)
	if n > 0 {
		w.hasWritten = true
	}

	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}

	return n, nil
}

// isTitle reports whether data starts with an emoji that is not one of the
// message symbols used by WriteMessage.
func isTitle(data []byte) bool {
	first, _ := utf8.DecodeRune(data)
	if first == utf8.RuneError {
		return false
	}

	switch first {
	case '►', '✔', '✗', '⚠', 'ℹ', '→', '⏲':
		return false
	}

	return unicode.Is(unicode.So, first)
}
