package termcolor

import (
	"bytes"
	"io"
)

// LineWriter paints everything written through it with a style. Line
// terminators are passed through unpainted so each output line carries its
// own reset sequence.
type LineWriter struct {
	w       io.Writer
	prefix  []byte
	enabled bool
	buf     []byte
}

// NewLineWriter returns a LineWriter over w. When enabled is false, or the
// style has no visible effect, bytes are forwarded unchanged.
func NewLineWriter(w io.Writer, s Style, enabled bool) *LineWriter {
	lw := &LineWriter{w: w, enabled: enabled && !s.IsZero()}
	if lw.enabled {
		lw.prefix = []byte(Apply(s, "x", true))
		lw.prefix = lw.prefix[:bytes.IndexByte(lw.prefix, 'x')]
	}
	return lw
}

func (lw *LineWriter) Write(p []byte) (int, error) {
	if !lw.enabled {
		return lw.w.Write(p)
	}
	lw.buf = lw.buf[:0]
	rest := p
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, '\n')
		seg := rest
		if i >= 0 {
			seg = rest[:i]
		}
		if len(seg) > 0 {
			lw.buf = append(lw.buf, lw.prefix...)
			lw.buf = append(lw.buf, seg...)
			lw.buf = append(lw.buf, reset...)
		}
		if i < 0 {
			break
		}
		lw.buf = append(lw.buf, '\n')
		rest = rest[i+1:]
	}
	n, err := lw.w.Write(lw.buf)
	if err != nil {
		return 0, err
	}
	if n != len(lw.buf) {
		return 0, io.ErrShortWrite
	}
	return len(p), nil
}

var reset = []byte("\x1b[0m")
