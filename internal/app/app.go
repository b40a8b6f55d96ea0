// Package app wires configuration, calibration and the command session
// into the symcalc binary.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/symcalc/internal/calibration"
	"github.com/agbru/symcalc/internal/cli"
	"github.com/agbru/symcalc/internal/config"
	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/logging"
	"github.com/agbru/symcalc/internal/metrics"
	"github.com/agbru/symcalc/internal/orchestration"
	"github.com/agbru/symcalc/internal/series"
	"github.com/agbru/symcalc/internal/ui"
)

// Application represents the symcalc application instance.
type Application struct {
	Config    config.AppConfig
	Metrics   *metrics.Metrics
	ErrWriter io.Writer
	logger    *logging.ZerologAdapter
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithMetrics sets the registry commands are recorded in.
func WithMetrics(m *metrics.Metrics) AppOption {
	return func(a *Application) { a.Metrics = m }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Metrics == nil {
		app.Metrics = metrics.NewMetrics()
	}

	programName := "symcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = config.ApplyAdaptiveTuning(cfg)
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)
	a.setupLogging()

	if a.Config.Calibrate {
		return calibration.RunCalibration(ctx, out, a.Config)
	}
	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	session, code := a.newSession(out)
	if session == nil {
		return code
	}
	a.logger.Debug("session ready",
		logging.String("width", a.Config.Width),
		logging.Uint64("block_size", uint64(a.Config.BlockSize)),
		logging.Int("workers", a.Config.Workers))

	if a.Config.Interactive() {
		repl := cli.NewREPL(session)
		repl.SetOutput(out)
		repl.Start(ctx)
		return apperrors.ExitSuccess
	}
	return a.runOneShot(ctx, session, out)
}

// setupLogging installs the structured logger on the packages that log.
// Debug records are only emitted in verbose mode.
func (a *Application) setupLogging() {
	level := zerolog.WarnLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: a.ErrWriter, NoColor: a.Config.NoColor}).
		Level(level).With().Timestamp().Str("component", "symcalc").Logger()
	a.logger = logging.NewZerologAdapter(zl)

	series.SetLogger(zl.With().Str("component", "series").Logger())
	calibration.SetLogger(zl.With().Str("component", "calibration").Logger())
	cli.SetLogger(zl.With().Str("component", "cli").Logger())
}

// newSession builds the command session, reporting configuration errors.
func (a *Application) newSession(out io.Writer) (*cli.Session, int) {
	cfg, err := cli.NewSessionConfig(a.Config)
	if err != nil {
		return nil, apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	session, err := cli.NewSession(cfg, a.Metrics)
	if err != nil {
		return nil, apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	session.SetOutput(out)
	return session, apperrors.ExitSuccess
}

// runOneShot executes the positional command and optionally dumps metrics.
func (a *Application) runOneShot(ctx context.Context, session *cli.Session, out io.Writer) int {
	code, _ := session.Execute(ctx, a.Config.Args)
	if a.Config.Metrics {
		fmt.Fprintln(out)
		if err := a.Metrics.WritePrometheus(out); err != nil {
			a.logger.Error("metrics exposition failed", err)
		}
	}
	return code
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, orchestration.Widths()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runAutoCalibrationIfEnabled runs auto-calibration if enabled.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if a.Config.AutoCalibrate {
		if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out); ok {
			return updated
		}
	}
	return a.Config
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCode maps a New error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case IsHelpError(err):
		return apperrors.ExitSuccess
	}
	var cfgErr apperrors.ConfigError
	if errors.As(err, &cfgErr) {
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitErrorGeneric
}
