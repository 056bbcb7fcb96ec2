package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/config"
	"github.com/roach88/execdiff/internal/logging"
)

// environment bundles everything a command needs beyond its own arguments.
type environment struct {
	cfg    config.Config
	logger *zap.Logger
	color  bool
}

// setup loads settings and builds the logger. Color resolution order:
// --color flag, then config, then TTY detection for "auto".
func setup(cmd *cobra.Command, opts *RootOptions) (*environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load settings", err)
	}

	logger, err := logging.New(opts.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to initialize logger", err)
	}

	mode := cfg.Color
	if opts.Color != "" {
		mode = opts.Color
	}
	var color bool
	switch mode {
	case "always":
		color = true
	case "never":
		color = false
	default:
		color = isTerminal(cmd.OutOrStdout())
	}

	return &environment{cfg: cfg, logger: logger, color: color}, nil
}

// loadSession reads the given log files and parses them in parallel.
func (e *environment) loadSession(cmd *cobra.Command, paths []string) (*compare.Session, error) {
	sources := make([]compare.Source, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read execution log", err)
		}
		sources[i] = compare.Source{Name: displayName(paths, i), Data: data}
	}

	loadOpts := []compare.Option{
		compare.WithLogger(e.logger),
		compare.WithWorkers(e.cfg.Workers),
	}
	if e.cfg.Progress {
		p := newProgressPrinter(cmd.ErrOrStderr(), time.Duration(e.cfg.ProgressIntervalMs)*time.Millisecond)
		loadOpts = append(loadOpts, compare.WithProgress(p.report))
	}

	sess, err := compare.Load(context.Background(), sources, loadOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load execution logs", err)
	}
	return sess, nil
}

// displayName picks the label for paths[i] in reports. When some path is
// long and base names are unambiguous, the report gutters use base names.
func displayName(paths []string, i int) string {
	long := false
	bases := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if len(p) > 20 {
			long = true
		}
		bases[filepath.Base(p)] = struct{}{}
	}
	if long && len(bases) == len(paths) {
		return filepath.Base(paths[i])
	}
	return paths[i]
}

// progressPrinter rate-limits parse-progress lines per log.
type progressPrinter struct {
	w        io.Writer
	interval time.Duration
	num      *message.Printer

	mu   sync.Mutex
	last map[string]time.Time
}

func newProgressPrinter(w io.Writer, interval time.Duration) *progressPrinter {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &progressPrinter{
		w:        w,
		interval: interval,
		num:      message.NewPrinter(language.English),
		last:     make(map[string]time.Time),
	}
}

func (p *progressPrinter) report(log string, offset, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if offset < total && now.Sub(p.last[log]) < p.interval {
		return
	}
	p.last[log] = now

	if offset >= total {
		p.num.Fprintf(p.w, "%s: parsed %d bytes\n", log, total)
		return
	}
	p.num.Fprintf(p.w, "%s: %d / %d bytes\n", log, offset, total)
}

// isTerminal reports whether w is a character device, for color auto mode.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
