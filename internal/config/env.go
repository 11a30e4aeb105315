package config

import (
	"errors"
	"strings"
	"time"

	"github.com/phyten/grepx/internal/options"
)

// Environment variables read by FromEnv.
const (
	EnvConfig     = "GREPX_CONFIG"
	EnvColor      = "GREPX_COLOR"
	EnvHighlight  = "GREPX_HIGHLIGHT"
	EnvOutput     = "GREPX_OUTPUT"
	EnvMaxColumns = "GREPX_MAX_COLUMNS"
	EnvProgress   = "GREPX_PROGRESS"
	EnvWatch      = "GREPX_WATCH"
	EnvLog        = "GREPX_LOG"
)

// FromEnv builds a Layer from GREPX_* variables. Every malformed value is
// reported, not just the first.
func FromEnv(getenv func(string) string) (Layer, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var layer Layer
	var errs []error

	lookup := func(key string) (string, bool) {
		raw := strings.TrimSpace(getenv(key))
		return raw, raw != ""
	}
	setString := func(target **string, key string) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		value := raw
		*target = &value
	}
	setBool := func(target **bool, key string) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := options.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}
	setInt := func(target **int, key string, min, max int) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := options.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}
	setDuration := func(target **time.Duration, key string) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := options.ParseDuration(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}

	setString(&layer.Color, EnvColor)
	setString(&layer.Highlight, EnvHighlight)
	setString(&layer.Output, EnvOutput)
	// Upper bound is left to NormalizeAndValidate so every input path
	// reports the same message.
	setInt(&layer.MaxColumns, EnvMaxColumns, 0, -1)
	setBool(&layer.Progress, EnvProgress)
	setDuration(&layer.Watch, EnvWatch)
	setString(&layer.LogLevel, EnvLog)

	if len(errs) > 0 {
		return layer, errors.Join(errs...)
	}
	return layer, nil
}
