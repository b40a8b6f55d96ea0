package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/symcalc/internal/config"
	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/hashset"
	"github.com/agbru/symcalc/internal/memory"
	"github.com/agbru/symcalc/internal/metrics"
	"github.com/agbru/symcalc/internal/orchestration"
	"github.com/agbru/symcalc/internal/tuning"
)

var logger = zerolog.Nop()

// SetLogger sets the logger used for command tracing.
func SetLogger(l zerolog.Logger) { logger = l }

// SessionConfig holds the settings a session runs commands with.
type SessionConfig struct {
	// Width is the evaluator used by the integer commands.
	Width string
	// Timeout bounds each command; zero means no limit.
	Timeout time.Duration
	// Tuning drives series multiplication.
	Tuning tuning.Config
	// Precision is the binary precision of real commands.
	Precision uint
	// GCMode controls the collector during expansions.
	GCMode string
	// MemoryLimit rejects expansions estimated above it; zero means no limit.
	MemoryLimit uint64
	// Quiet prints bare values only.
	Quiet bool
	// Verbose prints untruncated values and memory statistics.
	Verbose bool
	// HideDurations omits timings, for reproducible transcripts.
	HideDurations bool
}

// NewSessionConfig derives a SessionConfig from the application
// configuration. cfg.BlockSize must already be resolved.
func NewSessionConfig(cfg config.AppConfig) (SessionConfig, error) {
	t, err := cfg.Tuning()
	if err != nil {
		return SessionConfig{}, err
	}
	var limit uint64
	if cfg.MemoryLimit != "" {
		if limit, err = memory.ParseMemoryLimit(cfg.MemoryLimit); err != nil {
			return SessionConfig{}, apperrors.NewConfigError("invalid -memory-limit: %v", err)
		}
	}
	return SessionConfig{
		Width:       cfg.Width,
		Timeout:     cfg.Timeout,
		Tuning:      t,
		Precision:   cfg.Precision,
		GCMode:      cfg.GCMode,
		MemoryLimit: limit,
		Quiet:       cfg.Quiet,
		Verbose:     cfg.Verbose,
	}, nil
}

// Session executes commands against shared state: the current width, the
// metrics registry and the statistics of the last expansion.
type Session struct {
	cfg       SessionConfig
	evaluator orchestration.Evaluator
	metrics   *metrics.Metrics
	progress  orchestration.ProgressReporter
	presenter CLIResultPresenter
	lastStats *hashset.Stats
	out       io.Writer
}

// exitError reports a failure that has already been printed.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// NewSession creates a session writing to os.Stdout. A nil m gets a fresh
// registry.
//
// Parameters:
//   - cfg: The session settings.
//   - m: The metrics registry commands are recorded in.
//
// Returns:
//   - *Session: The new session.
//   - error: A ConfigError if cfg.Width is unknown.
func NewSession(cfg SessionConfig, m *metrics.Metrics) (*Session, error) {
	if cfg.Width == "" {
		cfg.Width = config.DefaultWidth
	}
	if cfg.Precision == 0 {
		cfg.Precision = config.DefaultPrecision
	}
	ev, err := orchestration.EvaluatorFor(cfg.Width)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	var progress orchestration.ProgressReporter = CLIProgressReporter{}
	if cfg.Quiet || cfg.HideDurations {
		progress = orchestration.NullProgressReporter{}
	}
	return &Session{
		cfg:       cfg,
		evaluator: ev,
		metrics:   m,
		progress:  progress,
		presenter: CLIResultPresenter{HideDurations: cfg.HideDurations},
		out:       os.Stdout,
	}, nil
}

// SetOutput redirects command output.
func (s *Session) SetOutput(out io.Writer) { s.out = out }

// Metrics returns the registry the session records into.
func (s *Session) Metrics() *metrics.Metrics { return s.metrics }

// Execute runs one command given as whitespace-separated fields. Failures
// are printed and mapped to an exit code.
//
// Returns:
//   - int: The exit code of the command.
//   - bool: true if the command asks to end the session.
func (s *Session) Execute(ctx context.Context, fields []string) (int, bool) {
	if len(fields) == 0 {
		return apperrors.ExitSuccess, false
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]
	if name == "exit" || name == "quit" {
		return apperrors.ExitSuccess, true
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	label := name
	if _, ok := lookupCommand(name); !ok {
		label = "unknown"
	}
	ctx, span := metrics.StartSpan(ctx, "symcalc."+label,
		attribute.String("symcalc.args", strings.Join(args, " ")),
		attribute.String("symcalc.width", s.cfg.Width))

	start := time.Now()
	err := s.dispatch(ctx, name, args)
	duration := time.Since(start)

	metrics.EndSpan(span, err)
	s.metrics.ObserveCommand(label, duration, err)
	logger.Debug().Str("command", name).Dur("duration", duration).Err(err).Msg("command executed")

	if err == nil {
		return apperrors.ExitSuccess, false
	}
	var reported exitError
	if errors.As(err, &reported) {
		return reported.code, false
	}
	return s.presenter.HandleError(err, duration, s.out), false
}

// output returns the display settings for results.
func (s *Session) output() OutputConfig {
	return OutputConfig{Quiet: s.cfg.Quiet, Verbose: s.cfg.Verbose, HideDurations: s.cfg.HideDurations}
}

func (s *Session) dispatch(ctx context.Context, name string, args []string) error {
	if _, ok := orchestration.LookupOperation(name); ok {
		return s.cmdInteger(ctx, name, args)
	}
	switch name {
	case "info":
		return s.cmdInfo(args)
	case "rat":
		return s.cmdRat(args)
	case "real":
		return s.cmdReal(args)
	case "expand":
		return s.cmdExpand(ctx, args)
	case "compare", "cmp":
		return s.cmdCompare(ctx, args)
	case "width":
		return s.cmdWidth(args)
	case "status", "st":
		s.cmdStatus()
		return nil
	case "stats":
		s.cmdStats()
		return nil
	case "metrics":
		return s.metrics.WritePrometheus(s.out)
	case "help", "h", "?":
		s.printHelp()
		return nil
	}
	return apperrors.ValidationError{Field: name, Message: "unknown command (type help for the list)"}
}
