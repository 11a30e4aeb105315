package config

import "strings"

// Merge applies layers over base in order; later layers win. String values
// are trimmed, and blank color or output fall back to auto and text.
func Merge(base Settings, layers ...Layer) Settings {
	out := base
	for _, l := range layers {
		override(&out.Color, l.Color)
		override(&out.Highlight, l.Highlight)
		override(&out.Output, l.Output)
		override(&out.MaxColumns, l.MaxColumns)
		override(&out.Progress, l.Progress)
		override(&out.Watch, l.Watch)
		override(&out.LogLevel, l.LogLevel)
	}
	out.Color = orDefault(out.Color, "auto")
	out.Highlight = strings.TrimSpace(out.Highlight)
	out.Output = orDefault(out.Output, "text")
	out.LogLevel = strings.TrimSpace(out.LogLevel)
	return out
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
