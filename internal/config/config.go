// Package config parses command-line flags and environment variables into
// the application configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/tuning"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "SYMCALC_"

const (
	// DefaultTimeout bounds a single command.
	DefaultTimeout = time.Minute
	// DefaultPrecision is the binary precision of real evaluations.
	DefaultPrecision uint = 113
	// DefaultWidth is the integer width used by the integer commands.
	DefaultWidth = "native"
)

// ValidWidths lists the accepted -width values.
var ValidWidths = []string{"native", "w8", "w16", "w32", "w64", "big"}

// validGCModes lists the accepted -gc values.
var validGCModes = []string{"auto", "aggressive", "disabled"}

// validShells lists the accepted -completion values.
var validShells = []string{"bash", "zsh", "fish"}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Width selects the static width of integer commands.
	Width string
	// Timeout bounds each command.
	Timeout time.Duration
	// Workers caps series multiplication goroutines (0 means GOMAXPROCS).
	Workers int
	// BlockSize is the multiplication block size (0 means adaptive).
	BlockSize uint
	// ParallelMemorySet enables parallel sweeps of large tables.
	ParallelMemorySet bool
	// Precision is the binary precision of real evaluations.
	Precision uint
	// GCMode controls the collector during large expansions.
	GCMode string
	// MemoryLimit rejects expansions estimated above this size (e.g. "2G").
	MemoryLimit string
	// CalibrationProfile is the path of the calibration profile.
	CalibrationProfile string
	// Calibrate runs the full block-size calibration and exits.
	Calibrate bool
	// AutoCalibrate runs a quick calibration at startup.
	AutoCalibrate bool
	// Metrics prints the prometheus exposition after a one-shot command.
	Metrics bool
	// Quiet prints bare results only.
	Quiet bool
	// Verbose prints untruncated numbers and debug logs.
	Verbose bool
	// NoColor disables colored output.
	NoColor bool
	// Completion names a shell to print a completion script for.
	Completion string
	// Args holds the positional arguments forming a one-shot command.
	Args []string
}

// Interactive reports whether the REPL should start.
func (c AppConfig) Interactive() bool { return len(c.Args) == 0 }

// Tuning converts the configuration into series tuning. BlockSize must have
// been resolved (see ApplyAdaptiveTuning).
func (c AppConfig) Tuning() (tuning.Config, error) {
	t := tuning.Default()
	t.Workers = c.Workers
	t.ParallelMemorySet = c.ParallelMemorySet
	if err := t.SetMultiplicationBlockSize(c.BlockSize); err != nil {
		return tuning.Config{}, apperrors.NewConfigError("invalid -block-size: %v", err)
	}
	return t, nil
}

// Validate checks the configuration for semantic errors.
func (c AppConfig) Validate() error {
	if !slices.Contains(ValidWidths, c.Width) {
		return apperrors.NewConfigError("unknown width %q (valid: %s)", c.Width, strings.Join(ValidWidths, ", "))
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be non-negative, got %d", c.Workers)
	}
	if c.BlockSize != 0 && (c.BlockSize < tuning.MinMultiplicationBlockSize || c.BlockSize > tuning.MaxMultiplicationBlockSize) {
		return apperrors.NewConfigError("block size %d outside [%d, %d]", c.BlockSize,
			tuning.MinMultiplicationBlockSize, tuning.MaxMultiplicationBlockSize)
	}
	if c.Precision == 0 {
		return apperrors.NewConfigError("precision must be positive")
	}
	if !slices.Contains(validGCModes, c.GCMode) {
		return apperrors.NewConfigError("unknown gc mode %q (valid: %s)", c.GCMode, strings.Join(validGCModes, ", "))
	}
	if c.Completion != "" && !slices.Contains(validShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q (valid: %s)", c.Completion, strings.Join(validShells, ", "))
	}
	return nil
}

// ParseConfig parses command-line arguments, applies environment overrides
// for flags that were not set explicitly, and validates the result.
//
// Parameters:
//   - programName: The program name used in usage output.
//   - args: The command-line arguments, without the program name.
//   - errorWriter: Where flag errors and usage are written.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, a ConfigError otherwise.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] [command args...]\n\n", programName)
		fmt.Fprintf(errorWriter, "Without a command, an interactive session starts.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	config := AppConfig{}
	fs.StringVar(&config.Width, "width", DefaultWidth, "Integer width: "+strings.Join(ValidWidths, ", ")+".")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of a single command.")
	fs.IntVar(&config.Workers, "workers", 0, "Series multiplication workers (0 = GOMAXPROCS).")
	fs.UintVar(&config.BlockSize, "block-size", 0, "Series multiplication block size (0 = calibrated or estimated).")
	fs.BoolVar(&config.ParallelMemorySet, "parallel-memory", true, "Sweep large term tables in parallel.")
	fs.UintVar(&config.Precision, "precision", DefaultPrecision, "Binary precision of real evaluations.")
	fs.StringVar(&config.GCMode, "gc", "auto", "GC control during expansions: auto, aggressive, disabled.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Reject expansions estimated above this size (e.g. 2G).")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Calibrate the multiplication block size and exit.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration at startup.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print prometheus metrics after a one-shot command.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print bare results only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print full numbers and debug logs.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")
	// Accepted here so it shows in -h; main handles it before parsing.
	fs.Bool("version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	config.Args = fs.Args()
	config.Width = strings.ToLower(config.Width)

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
