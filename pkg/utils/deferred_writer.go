// Package utils holds small helpers shared by commands.
package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter buffers writes in memory until Flush is called. It is used
// to hold output produced while the TUI owns the terminal. Safe for
// concurrent use.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer

	// MaxLines caps the number of buffered lines; later lines are counted
	// and reported by Flush instead. Zero means no limit.
	MaxLines int
	lines    int
	dropped  int
}

// Write stores p, or drops it once MaxLines lines are held. It never fails.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.MaxLines > 0 && d.lines >= d.MaxLines {
		d.dropped += max(bytes.Count(p, []byte("\n")), 1)
		return len(p), nil
	}

	d.lines += bytes.Count(p, []byte("\n"))
	return d.buf.Write(p)
}

// Flush writes the buffered data to w, followed by a note when lines were
// dropped, and resets the writer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		d.buf.Reset()
		d.lines, d.dropped = 0, 0
	}()

	if d.buf.Len() > 0 {
		if _, err := d.buf.WriteTo(w); err != nil {
			return err
		}
	}
	if d.dropped > 0 {
		if _, err := fmt.Fprintf(w, "... %d more line(s) omitted\n", d.dropped); err != nil {
			return err
		}
	}
	return nil
}
