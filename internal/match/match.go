// Package match selects the lines of a text that contain a literal pattern.
package match

import (
	"fmt"
	"io"
	"strings"
)

// Matcher tests lines for a literal, case-sensitive substring.
type Matcher struct {
	pattern string
}

// New returns a Matcher for pattern. The empty pattern matches every line.
func New(pattern string) Matcher {
	return Matcher{pattern: pattern}
}

// Pattern returns the literal being searched for.
func (m Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether line contains the pattern.
func (m Matcher) Match(line string) bool {
	return strings.Contains(line, m.pattern)
}

// WriteMatches writes every matching line of content to w in source order,
// each followed by a single "\n". It stops at the first failed write and
// returns the number of lines written before it.
func (m Matcher) WriteMatches(content string, w io.Writer) (int, error) {
	written := 0
	rest := content
	lineNo := 0
	for rest != "" {
		var line string
		line, rest = cutLine(rest)
		lineNo++
		if !m.Match(line) {
			continue
		}
		if err := writeLine(w, line); err != nil {
			return written, fmt.Errorf("write line %d: %w", lineNo, err)
		}
		written++
	}
	return written, nil
}

// FindMatches writes the lines of content containing pattern to w.
func FindMatches(content, pattern string, w io.Writer) error {
	_, err := New(pattern).WriteMatches(content, w)
	return err
}

// Lines splits content the way FindMatches sees it: "\n" and "\r\n" end a
// line, a trailing unterminated run is a line, and a final terminator does
// not open an empty one.
func Lines(content string) []string {
	var out []string
	rest := content
	for rest != "" {
		var line string
		line, rest = cutLine(rest)
		out = append(out, line)
	}
	return out
}

func cutLine(s string) (string, string) {
	line, rest, found := strings.Cut(s, "\n")
	if found {
		line = strings.TrimSuffix(line, "\r")
	}
	return line, rest
}

func writeLine(w io.Writer, line string) error {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}
