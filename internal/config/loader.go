package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/phyten/grepx/internal/options"
)

type decodeFunc func(data []byte, v any) error

var decoders = map[string]decodeFunc{
	".toml": toml.Unmarshal,
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
}

// setter stores one raw config value into a Layer.
type setter func(raw any, key string, l *Layer) error

var setters = map[string]setter{
	"color":       stringField(func(l *Layer) **string { return &l.Color }),
	"highlight":   stringField(func(l *Layer) **string { return &l.Highlight }),
	"output":      stringField(func(l *Layer) **string { return &l.Output }),
	"log":         stringField(func(l *Layer) **string { return &l.LogLevel }),
	"max_columns": setMaxColumns,
	"progress":    progressField(false),
	"no_progress": progressField(true),
	"watch":       setWatch,
}

var aliases = map[string]string{
	"colour":    "color",
	"format":    "output",
	"max_cols":  "max_columns",
	"log_level": "log",
}

// Load reads a config file, choosing the decoder from its extension.
// An empty path yields an empty Layer.
func Load(path string) (Layer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Layer{}, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Layer{}, fmt.Errorf("unsupported config extension: %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, err
	}
	var raw map[string]any
	if err := decode(data, &raw); err != nil {
		return Layer{}, fmt.Errorf("parse %s: %w", path, err)
	}
	layer, err := decodeLayer(raw)
	if err != nil {
		return Layer{}, fmt.Errorf("%s: %w", path, err)
	}
	return layer, nil
}

// decodeLayer applies top-level keys and, if present, a [grepx] table.
// Keys inside the table are applied last.
func decodeLayer(raw map[string]any) (Layer, error) {
	var layer Layer
	var section map[string]any
	for key, value := range raw {
		if canonicalKey(key) == "grepx" {
			sub, err := toStringKeyMap(value)
			if err != nil {
				return layer, fmt.Errorf("grepx: %w", err)
			}
			section = sub
			continue
		}
		if err := apply(&layer, key, value); err != nil {
			return layer, err
		}
	}
	for key, value := range section {
		if err := apply(&layer, key, value); err != nil {
			return layer, fmt.Errorf("grepx: %w", err)
		}
	}
	return layer, nil
}

func apply(l *Layer, key string, value any) error {
	set, ok := setters[canonicalKey(key)]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	return set(value, key, l)
}

func canonicalKey(key string) string {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	if alias, ok := aliases[k]; ok {
		return alias
	}
	return k
}

func stringField(field func(*Layer) **string) setter {
	return func(raw any, key string, l *Layer) error {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %s", key, typeName(raw))
		}
		s = strings.TrimSpace(s)
		*field(l) = &s
		return nil
	}
}

func progressField(inverted bool) setter {
	return func(raw any, key string, l *Layer) error {
		var b bool
		switch v := raw.(type) {
		case bool:
			b = v
		case string:
			parsed, err := options.ParseBool(v, key)
			if err != nil {
				return err
			}
			b = parsed
		default:
			return fmt.Errorf("%s: expected bool, got %s", key, typeName(raw))
		}
		if inverted {
			b = !b
		}
		l.Progress = &b
		return nil
	}
}

func setMaxColumns(raw any, key string, l *Layer) error {
	n, err := toInt(raw, key)
	if err != nil {
		return err
	}
	l.MaxColumns = &n
	return nil
}

// setWatch takes a duration literal ("2s") or a whole number of seconds.
func setWatch(raw any, key string, l *Layer) error {
	var d time.Duration
	if s, ok := raw.(string); ok {
		parsed, err := options.ParseDuration(s, key)
		if err != nil {
			return err
		}
		d = parsed
	} else {
		n, err := toInt(raw, key)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
		d = time.Duration(n) * time.Second
	}
	l.Watch = &d
	return nil
}

// toInt accepts the integer shapes the three decoders produce, plus
// numeric strings.
func toInt(raw any, key string) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("%s: %d is out of range", key, v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%s: expected integer, got %v", key, v)
		}
		return int(v), nil
	case string:
		return options.ParseIntInRange(v, key, math.MinInt32, math.MaxInt32)
	}
	return 0, fmt.Errorf("%s: expected integer, got %s", key, typeName(raw))
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected table, got %s", typeName(v))
}
