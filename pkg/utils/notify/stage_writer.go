package notify

import (
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StageWriter separates command stages with a blank line.
// A stage starts with a title, i.e. a line beginning with a pictographic emoji.
type StageWriter struct {
	mu         sync.Mutex
	underlying io.Writer
	written    bool
}

// NewStageWriter wraps w.
func NewStageWriter(w io.Writer) *StageWriter {
	return &StageWriter{underlying: w}
}

func (w *StageWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.written && isTitle(data) {
		_, err := w.underlying.Write([]byte{'\n'})
		if err != nil {
			return 0, fmt.Errorf("write stage separator: %w", err)
		}
	}

	n, err := w.underlying.Write(data)
	if n > 0 {
		w.written = true
	}

	if err != nil {
		return n, fmt.Errorf("write stage output: %w", err)
	}

	return n, nil
}

func isTitle(data []byte) bool {
	first, _ := utf8.DecodeRune(data)

	switch first {
	case utf8.RuneError, '►', '✔', '✗', '⚠', 'ℹ', '⏲':
		return false
	}

	return unicode.Is(unicode.So, first)
}
