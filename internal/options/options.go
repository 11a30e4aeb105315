package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	maxColumnsLimit = 1 << 16
	minWatch        = 100 * time.Millisecond
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}}
)

// Options holds everything a single grepx run needs.
type Options struct {
	Pattern    string
	Path       string
	Color      string // auto|always|never
	Highlight  string
	Output     string // text|ndjson
	MaxColumns int
	Progress   bool
	Watch      time.Duration
	LogLevel   string
}

// Defaults returns the baseline options before config, env and flags apply.
func Defaults() Options {
	return Options{
		Color:      "auto",
		Highlight:  "cyan",
		Output:     "text",
		MaxColumns: 0,
		Progress:   true,
		Watch:      0,
		LogLevel:   "warn",
	}
}

// NormalizeAndValidate canonicalizes o in place and checks value ranges.
func NormalizeAndValidate(o *Options) error {
	if strings.TrimSpace(o.Path) == "" {
		return fmt.Errorf("missing PATH argument")
	}

	o.Color = strings.ToLower(strings.TrimSpace(o.Color))
	switch o.Color {
	case "", "auto":
		o.Color = "auto"
	case "always", "never":
	default:
		return fmt.Errorf("invalid --color: %s", o.Color)
	}

	o.Highlight = strings.ToLower(strings.TrimSpace(o.Highlight))
	if o.Highlight == "" {
		o.Highlight = "cyan"
	}

	out, err := NormalizeOutput(o.Output)
	if err != nil {
		return err
	}
	o.Output = out

	if o.MaxColumns < 0 || o.MaxColumns > maxColumnsLimit {
		return fmt.Errorf("max_columns must be between 0 and %d", maxColumnsLimit)
	}

	if o.Watch < 0 {
		return fmt.Errorf("watch interval must be >= 0")
	}
	if o.Watch > 0 && o.Watch < minWatch {
		return fmt.Errorf("watch interval must be at least %s", minWatch)
	}

	o.LogLevel = strings.ToLower(strings.TrimSpace(o.LogLevel))
	if o.LogLevel == "" {
		o.LogLevel = "warn"
	}
	return nil
}

// NormalizeOutput validates and lower-cases the output format value.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "text":
		return "text", nil
	case "ndjson", "json":
		return "ndjson", nil
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// ParseBool converts a string literal into a boolean, accepting multiple synonyms.
func ParseBool(raw, key string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := trueLiterals[v]; ok {
		return true, nil
	}
	if _, ok := falseLiterals[v]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses a string into an int and ensures it falls within [min, max].
// If max < min, the upper bound is ignored.
func ParseIntInRange(raw, key string, min, max int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	if n < min {
		if max >= min {
			return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	if max >= min && n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// ParseDuration accepts Go duration literals and bare integers as seconds.
func ParseDuration(raw, key string) (time.Duration, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%s must be >= 0", key)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return d, nil
}

func parseInt(raw, key string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}
