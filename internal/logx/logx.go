// Package logx adds severity levels on top of the standard log package.
// The level normally comes from GREPX_LOG.
package logx

import (
	"fmt"
	"io"
	"log"
	"strings"
)

type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts error, warn(ing), info, debug and trace (as debug).
// A blank value means warn.
func ParseLevel(v string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "info":
		return LevelInfo, nil
	case "debug", "trace":
		return LevelDebug, nil
	}
	return LevelWarn, fmt.Errorf("invalid log level: %q", v)
}

// Logger writes leveled messages through a *log.Logger. The zero value
// discards everything; a nil *Logger is safe to call.
type Logger struct {
	l     *log.Logger
	level Level
}

// New returns a Logger printing to w with the given prefix.
func New(w io.Writer, prefix string, level Level) *Logger {
	return &Logger{l: log.New(w, prefix, 0), level: level}
}

// Enabled reports whether messages at lvl are printed.
func (lg *Logger) Enabled(lvl Level) bool {
	return lg != nil && lg.l != nil && lvl <= lg.level
}

func (lg *Logger) Errorf(format string, args ...any) { lg.logf(LevelError, format, args...) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.logf(LevelWarn, format, args...) }
func (lg *Logger) Infof(format string, args ...any)  { lg.logf(LevelInfo, format, args...) }
func (lg *Logger) Debugf(format string, args ...any) { lg.logf(LevelDebug, format, args...) }

func (lg *Logger) logf(lvl Level, format string, args ...any) {
	if !lg.Enabled(lvl) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if lvl != LevelError {
		msg = lvl.String() + ": " + msg
	}
	lg.l.Print(msg)
}
