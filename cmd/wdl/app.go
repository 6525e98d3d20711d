package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/kingrea/wdl/internal/analysis"
	"github.com/kingrea/wdl/internal/config"
	"github.com/kingrea/wdl/internal/diag"
	"github.com/kingrea/wdl/internal/logging"
	"github.com/kingrea/wdl/internal/ui"
)

// app carries the process surroundings and the state built from global flags.
type app struct {
	fs       afero.Fs
	stdout   io.Writer
	stderr   io.Writer
	environ  []string
	client   *http.Client
	terminal func(io.Writer) bool

	verbose    int
	quiet      bool
	configPath string
	color      string

	cfg      *config.Config
	logger   *log.Logger
	renderer *diag.Renderer
}

func newApp() *app {
	return &app{
		fs:       afero.NewOsFs(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		environ:  os.Environ(),
		client:   http.DefaultClient,
		terminal: isTerminal,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setup loads configuration and builds the logger and renderer. Flags win
// over the environment, which wins over the configuration file.
func (a *app) setup() error {
	cfg, err := config.Load(a.fs, a.configPath, a.environ)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.color != "" {
		switch a.color {
		case config.ColorAuto, config.ColorAlways, config.ColorNever:
		default:
			return fmt.Errorf("invalid value `%s` for --color; expected auto, always or never", a.color)
		}
	}
	a.renderer = diag.NewRenderer(a.stderr, a.useColor())

	logger, err := logging.New(a.stderr, logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.verbose,
		Quiet:   a.quiet,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	if cfg.Path != "" {
		logger.Debug("loaded configuration", "path", cfg.Path)
	}
	return nil
}

func (a *app) useColor() bool {
	mode := a.color
	if mode == "" && a.cfg != nil {
		mode = a.cfg.Output.Color
	}
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return a.terminal(a.stderr)
	}
}

// analyze runs an analysis over sources, drawing a progress bar on a
// terminal.
func (a *app) analyze(ctx context.Context, sources, except []string, lint bool) (*analysis.Results, error) {
	an := analysis.New().
		Fs(a.fs).
		HTTPClient(a.client).
		Logger(a.logger).
		ExtendSources(sources).
		ExtendExceptions(except).
		Lint(lint)
	if a.terminal(a.stderr) {
		bar := ui.Start(a.stderr, a.cfg.ProgressDelay())
		defer bar.Stop()
		an.Progress(func(kind analysis.ProgressKind, completed, total int) {
			bar.Report(kind.String(), completed, total)
		})
	}
	return an.Run(ctx)
}

// emit renders diagnostics and fails when any has error severity.
func (a *app) emit(results *analysis.Results) error {
	count, err := results.EmitDiagnostics(a.stderr, a.renderer)
	if err != nil {
		return err
	}
	if count > 0 {
		return &diagnosticsError{count: count}
	}
	return nil
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, a *app, args []string) int {
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		renderer := a.renderer
		if renderer == nil {
			renderer = diag.NewRenderer(a.stderr, a.useColor())
		}
		fmt.Fprintln(a.stderr, renderer.Error(err.Error()))
		return exitCode(err)
	}
	return 0
}
