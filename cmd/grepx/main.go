package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phyten/grepx/internal/config"
	"github.com/phyten/grepx/internal/logx"
	"github.com/phyten/grepx/internal/match"
	"github.com/phyten/grepx/internal/options"
	"github.com/phyten/grepx/internal/output"
	"github.com/phyten/grepx/internal/progress"
	"github.com/phyten/grepx/internal/source"
	"github.com/phyten/grepx/internal/termcolor"
	"github.com/phyten/grepx/internal/watch"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

const logPrefix = "grepx: "

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Environ(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	logger := logx.New(stderr, logPrefix, logx.LevelWarn)

	cfg, err := parseArgs(args)
	if err != nil {
		logger.Errorf("%v", err)
		fmt.Fprintln(stderr, "Try 'grepx --help' for more information.")
		return exitUsage
	}
	if cfg.showHelp {
		printUsage(stdout)
		return exitOK
	}

	env := termcolor.EnvMap(environ)
	getenv := func(key string) string { return env[key] }

	opts, origin, err := resolveOptions(cfg, getenv)
	if err != nil {
		var verr *validationError
		if errors.As(err, &verr) {
			logger.Errorf("%v", verr.err)
			return exitUsage
		}
		logger.Errorf("%v", err)
		return exitFailure
	}

	level, err := logx.ParseLevel(opts.LogLevel)
	if err != nil {
		logger.Errorf("%v", err)
		return exitUsage
	}
	logger = logx.New(stderr, logPrefix, level)
	if origin != "" {
		logger.Debugf("config loaded from %s", origin)
	}

	style, err := termcolor.ParseColor(opts.Highlight, termcolor.DetectProfile(env))
	if err != nil {
		logger.Errorf("invalid --highlight: %v", err)
		return exitUsage
	}
	mode, err := termcolor.ParseMode(opts.Color)
	if err != nil {
		logger.Errorf("%v", err)
		return exitUsage
	}
	stdoutFile, _ := stdout.(*os.File)
	s := &scanner{
		opts:     opts,
		stdout:   stdout,
		stderr:   stderr,
		style:    style,
		paint:    termcolor.Resolve(mode, stdoutFile, env),
		progress: progress.ShouldShowProgress(cfg.forceProgress, !opts.Progress, stdout, stderr),
		logger:   logger,
	}

	if err := s.scan(ctx); err != nil {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		logger.Errorf("%v", err)
		return exitFailure
	}
	if opts.Watch <= 0 {
		return exitOK
	}
	if err := s.watch(ctx); err != nil {
		logger.Errorf("%v", err)
		return exitFailure
	}
	return exitInterrupted
}

// validationError marks errors caused by bad option values rather than
// unreadable config sources.
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }

// resolveOptions merges defaults, the config file, GREPX_* variables and
// flags in that order. It also reports where the config file came from.
func resolveOptions(cfg cliConfig, getenv func(string) string) (options.Options, string, error) {
	envLayer, err := config.FromEnv(getenv)
	if err != nil {
		return options.Options{}, "", err
	}

	explicit := cfg.configPath
	if explicit == "" {
		explicit = getenv(config.EnvConfig)
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	path, where, err := config.Find(cwd, explicit, getenv("XDG_CONFIG_HOME"), getenv("HOME"))
	if err != nil {
		return options.Options{}, "", err
	}
	var fileLayer config.Layer
	if path != "" {
		fileLayer, err = config.Load(path)
		if err != nil {
			return options.Options{}, "", err
		}
	}

	opts := options.Defaults()
	merged := config.Merge(config.SettingsFromOptions(opts), fileLayer, envLayer, cfg.flags)
	merged.ApplyToOptions(&opts)
	opts.Pattern = cfg.pattern
	opts.Path = cfg.path
	if err := options.NormalizeAndValidate(&opts); err != nil {
		return options.Options{}, "", &validationError{err: err}
	}

	origin := ""
	if path != "" {
		origin = fmt.Sprintf("%s (%s)", path, where)
	}
	return opts, origin, nil
}

type scanner struct {
	opts     options.Options
	stdout   io.Writer
	stderr   io.Writer
	style    termcolor.Style
	paint    bool
	progress bool
	logger   *logx.Logger
	last     source.Stat
}

// scan reads the file once and writes every matching line to stdout.
func (s *scanner) scan(ctx context.Context) error {
	var obs progress.Observer
	if s.progress {
		obs = progress.NewAutoObserver(s.stderr)
	}
	if st, err := source.StatOf(s.opts.Path); err == nil {
		s.last = st
	}
	started := time.Now()
	content, err := source.Read(ctx, s.opts.Path, obs)
	if err != nil {
		return err
	}

	sink := s.newSink()
	n, err := match.New(s.opts.Pattern).WriteMatches(content, sink)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := sink.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s.logger.Infof("%d matching lines in %s (%s)", n, s.opts.Path, time.Since(started).Round(time.Millisecond))
	return nil
}

// newSink builds matcher → [clip] → paint|ndjson → buffered stdout.
func (s *scanner) newSink() *output.Chain {
	chain := output.NewChain(s.stdout)
	switch s.opts.Output {
	case "ndjson":
		chain.Wrap(func(w io.Writer) io.Writer { return output.NewNDJSONWriter(w, s.opts.Path) })
	default:
		chain.Wrap(func(w io.Writer) io.Writer { return termcolor.NewLineWriter(w, s.style, s.paint) })
	}
	if s.opts.MaxColumns > 0 {
		chain.Wrap(func(w io.Writer) io.Writer { return output.NewClipWriter(w, s.opts.MaxColumns) })
	}
	return chain
}

// watch rescans whenever the file's size or mtime changes. It returns nil
// once ctx is cancelled. A file that is briefly missing is skipped.
func (s *scanner) watch(ctx context.Context) error {
	s.logger.Infof("watching %s every %s", s.opts.Path, s.opts.Watch)
	loop := watch.Loop{
		Interval: s.opts.Watch,
		OnTick: func(ctx context.Context, _ time.Time) error {
			st, err := source.StatOf(s.opts.Path)
			if err != nil {
				s.logger.Warnf("%v", err)
				return nil
			}
			if !watch.Changed(s.last, st) {
				return nil
			}
			s.logger.Debugf("%s changed, rescanning", s.opts.Path)
			err = s.scan(ctx)
			var rerr *source.ReadError
			if errors.As(err, &rerr) {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Warnf("%v", err)
				return nil
			}
			return err
		},
	}
	return loop.Run(ctx)
}
