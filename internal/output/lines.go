// Package output holds the sinks that sit between the matcher and stdout.
package output

import "bytes"

// lineSink turns a byte stream into whole lines for emit. A partial line is
// held until its terminator arrives or Flush is called.
type lineSink struct {
	pending []byte
	emit    func(line []byte) error
}

func (l *lineSink) Write(p []byte) (int, error) {
	data := p
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			l.pending = append(l.pending, data...)
			break
		}
		line := data[:i]
		if len(l.pending) > 0 {
			l.pending = append(l.pending, line...)
			line = l.pending
		}
		if err := l.emit(line); err != nil {
			return 0, err
		}
		l.pending = l.pending[:0]
		data = data[i+1:]
	}
	return len(p), nil
}

func (l *lineSink) Flush() error {
	if len(l.pending) == 0 {
		return nil
	}
	line := l.pending
	l.pending = nil
	return l.emit(line)
}
