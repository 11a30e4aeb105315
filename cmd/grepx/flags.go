package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/phyten/grepx/internal/config"
	"github.com/phyten/grepx/internal/options"
)

type cliConfig struct {
	pattern       string
	path          string
	configPath    string
	forceProgress bool
	showHelp      bool
	// flags holds only the values given on the command line.
	flags config.Layer
}

func parseArgs(args []string) (cliConfig, error) {
	var cfg cliConfig
	fs := pflag.NewFlagSet("grepx", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	color := fs.String("color", "auto", "")
	highlight := fs.String("highlight", "cyan", "")
	out := fs.StringP("output", "o", "text", "")
	maxColumns := fs.IntP("max-columns", "M", 0, "")
	forceProgress := fs.Bool("progress", false, "")
	noProgress := fs.Bool("no-progress", false, "")
	watchRaw := fs.StringP("watch", "w", "", "")
	fs.StringVarP(&cfg.configPath, "config", "c", "", "")
	fs.BoolVarP(&cfg.showHelp, "help", "h", false, "")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cfg.showHelp = true
			return cfg, nil
		}
		return cfg, err
	}
	if cfg.showHelp {
		return cfg, nil
	}

	if *forceProgress && *noProgress {
		return cfg, fmt.Errorf("--progress and --no-progress are mutually exclusive")
	}

	if fs.Changed("color") {
		cfg.flags.Color = color
	}
	if fs.Changed("highlight") {
		cfg.flags.Highlight = highlight
	}
	if fs.Changed("output") {
		cfg.flags.Output = out
	}
	if fs.Changed("max-columns") {
		cfg.flags.MaxColumns = maxColumns
	}
	switch {
	case *noProgress:
		v := false
		cfg.flags.Progress = &v
	case *forceProgress:
		v := true
		cfg.flags.Progress = &v
		cfg.forceProgress = true
	}
	if fs.Changed("watch") {
		d, err := options.ParseDuration(*watchRaw, "--watch")
		if err != nil {
			return cfg, err
		}
		cfg.flags.Watch = &d
	}

	rest := fs.Args()
	switch {
	case len(rest) < 2:
		return cfg, fmt.Errorf("expected PATTERN and PATH, got %d argument(s)", len(rest))
	case len(rest) > 2:
		return cfg, fmt.Errorf("unexpected argument: %s", strings.Join(rest[2:], " "))
	}
	cfg.pattern = rest[0]
	cfg.path = rest[1]
	return cfg, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `grepx - print the lines of a file that contain a pattern

Usage:
  grepx [flags] PATTERN PATH

Flags:
  --color auto|always|never   colorize matches (default auto)
  --highlight COLOR           match color: name, bright-NAME, bold-NAME, 0-255 or #rrggbb (default cyan)
  -o, --output text|ndjson    output format (default text)
  -M, --max-columns N         clip lines to N display columns (0 = off)
  --progress                  force the progress indicator even when piped
  --no-progress               disable the progress indicator
  -w, --watch INTERVAL        rescan when PATH changes (e.g. 2s, or seconds)
  -c, --config FILE           config file (.toml, .yaml, .yml or .json)
  -h, --help                  show this help

Environment:
  GREPX_CONFIG, GREPX_COLOR, GREPX_HIGHLIGHT, GREPX_OUTPUT, GREPX_MAX_COLUMNS,
  GREPX_PROGRESS, GREPX_WATCH, GREPX_LOG (error|warn|info|debug)
  NO_COLOR, CLICOLOR, CLICOLOR_FORCE, FORCE_COLOR are honored with --color=auto.

Precedence: flags > environment > config file > defaults.
`)
}
