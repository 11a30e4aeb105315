package config

import (
	"strings"
	"time"

	"github.com/phyten/grepx/internal/options"
)

// Layer is one source of settings; nil fields are left to earlier layers.
type Layer struct {
	Color      *string        `yaml:"color" toml:"color" json:"color"`
	Highlight  *string        `yaml:"highlight" toml:"highlight" json:"highlight"`
	Output     *string        `yaml:"output" toml:"output" json:"output"`
	MaxColumns *int           `yaml:"max_columns" toml:"max_columns" json:"max_columns"`
	Progress   *bool          `yaml:"progress" toml:"progress" json:"progress"`
	Watch      *time.Duration `yaml:"watch" toml:"watch" json:"watch"`
	LogLevel   *string        `yaml:"log" toml:"log" json:"log"`
}

// Settings is the fully resolved result of merging layers.
type Settings struct {
	Color      string
	Highlight  string
	Output     string
	MaxColumns int
	Progress   bool
	Watch      time.Duration
	LogLevel   string
}

func SettingsFromOptions(opts options.Options) Settings {
	return Settings{
		Color:      opts.Color,
		Highlight:  opts.Highlight,
		Output:     opts.Output,
		MaxColumns: opts.MaxColumns,
		Progress:   opts.Progress,
		Watch:      opts.Watch,
		LogLevel:   opts.LogLevel,
	}
}

func (s Settings) ApplyToOptions(opts *options.Options) {
	if opts == nil {
		return
	}
	opts.Color = s.Color
	opts.Highlight = s.Highlight
	opts.Output = s.Output
	opts.MaxColumns = s.MaxColumns
	opts.Progress = s.Progress
	opts.Watch = s.Watch
	if trimmed := strings.TrimSpace(s.LogLevel); trimmed != "" {
		opts.LogLevel = trimmed
	}
}
