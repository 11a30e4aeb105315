package output

import (
	"io"

	"github.com/phyten/grepx/internal/textutil"
)

const ellipsis = "…"

// ClipWriter cuts every line to a maximum display width. Escape sequences
// in the line take no width and are written through whether or not the
// line is cut.
type ClipWriter struct {
	lineSink
	w        io.Writer
	maxWidth int
}

// NewClipWriter wraps w. A maxWidth of zero or less disables clipping.
func NewClipWriter(w io.Writer, maxWidth int) *ClipWriter {
	c := &ClipWriter{w: w, maxWidth: maxWidth}
	c.emit = c.writeLine
	return c
}

func (c *ClipWriter) writeLine(line []byte) error {
	text := string(line)
	if c.maxWidth > 0 {
		text = textutil.TruncateByWidth(text, c.maxWidth, ellipsis)
	}
	buf := make([]byte, 0, len(text)+1)
	buf = append(buf, text...)
	buf = append(buf, '\n')
	n, err := c.w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}
