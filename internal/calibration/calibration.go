package calibration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/symcalc/internal/config"
	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/series"
	"github.com/agbru/symcalc/internal/tuning"
	"github.com/agbru/symcalc/internal/ui"
)

var logger = zerolog.Nop()

// SetLogger configures the logger for calibration events.
func SetLogger(l zerolog.Logger) { logger = l }

// Workload is the benchmarked computation: the square of
// (1 + x1 + ... + xSymbols)^Power.
type Workload struct {
	Symbols int
	Power   uint64
}

var (
	// DefaultWorkload is used by the full calibration.
	DefaultWorkload = Workload{Symbols: 4, Power: 12}
	// QuickWorkload is used by auto-calibration at startup.
	QuickWorkload = Workload{Symbols: 4, Power: 8}
)

func (w Workload) String() string {
	return fmt.Sprintf("(1+x1+...+x%d)^%d squared", w.Symbols, w.Power)
}

// build expands the workload base once; only the final squaring is timed.
func (w Workload) build(ctx context.Context, cfg tuning.Config) (*series.Polynomial, error) {
	p := series.NewConstant(integer.New[integer.Native](1))
	for i := 1; i <= w.Symbols; i++ {
		var err error
		if p, err = p.Add(series.NewSymbol(fmt.Sprintf("x%d", i))); err != nil {
			return nil, err
		}
	}
	return series.Pow(ctx, p, w.Power, cfg)
}

type calibrationResult struct {
	BlockSize uint
	Duration  time.Duration
	Err       error
}

// benchmark times one squaring of base per block size, keeping the best of
// runs repetitions.
func benchmark(ctx context.Context, base *series.Polynomial, cfg tuning.Config, sizes []uint, runs int) []calibrationResult {
	results := make([]calibrationResult, 0, len(sizes))
	for _, size := range sizes {
		res := calibrationResult{BlockSize: size}
		c := cfg
		if res.Err = c.SetMultiplicationBlockSize(size); res.Err == nil {
			for range runs {
				start := time.Now()
				if _, err := series.Mul(ctx, base, base, c); err != nil {
					res.Err = err
					break
				}
				if d := time.Since(start); res.Duration == 0 || d < res.Duration {
					res.Duration = d
				}
			}
		}
		logger.Debug().Uint("block_size", size).Dur("duration", res.Duration).Err(res.Err).Msg("calibration run")
		results = append(results, res)
		if ctx.Err() != nil {
			break
		}
	}
	return results
}

// pickBest returns the fastest successful block size.
func pickBest(results []calibrationResult) (uint, bool) {
	var best *calibrationResult
	for i := range results {
		r := &results[i]
		if r.Err == nil && (best == nil || r.Duration < best.Duration) {
			best = r
		}
	}
	if best == nil {
		return 0, false
	}
	return best.BlockSize, true
}

// baseTuning returns the tuning a calibration runs with: the configured
// workers and memory mode with a placeholder block size.
func baseTuning(cfg config.AppConfig) tuning.Config {
	t := tuning.Default()
	t.Workers = cfg.Workers
	t.ParallelMemorySet = cfg.ParallelMemorySet
	return t
}

// RunCalibration benchmarks every candidate block size on DefaultWorkload,
// prints a summary, and saves the best one to the calibration profile.
//
// Returns:
//   - int: An exit code.
func RunCalibration(ctx context.Context, out io.Writer, cfg config.AppConfig) int {
	tc := baseTuning(cfg)
	start := time.Now()
	fmt.Fprintf(out, "--- Calibration ---\nWorkload: %s%s%s, %d workers.\n",
		ui.ColorCyan(), DefaultWorkload, ui.ColorReset(), tc.EffectiveWorkers())

	base, err := DefaultWorkload.build(ctx, tc)
	if err != nil {
		fmt.Fprintf(out, "%sCalibration failed: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	results := benchmark(ctx, base, tc, GenerateBlockSizes(), 3)
	best, ok := pickBest(results)
	printCalibrationResults(out, results, best)
	if !ok {
		fmt.Fprintf(out, "%sCalibration failed: no block size completed.%s\n", ui.ColorRed(), ui.ColorReset())
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}

	profile := NewProfile()
	profile.OptimalBlockSize = best
	profile.Workers = tc.EffectiveWorkers()
	profile.CalibrationWorkload = DefaultWorkload.String()
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()

	path := cfg.CalibrationProfile
	if path == "" {
		path = GetDefaultProfilePath()
	}
	if err := profile.SaveProfile(path); err != nil {
		fmt.Fprintf(out, "%sCould not save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "\nProfile saved to %s%s%s\n", ui.ColorCyan(), path, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick benchmark around the estimated block size and
// returns cfg with the winner applied. The boolean is false when nothing
// completed, in which case cfg is returned unchanged.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer) (config.AppConfig, bool) {
	tc := baseTuning(cfg)
	base, err := QuickWorkload.build(ctx, tc)
	if err != nil {
		return cfg, false
	}
	best, ok := pickBest(benchmark(ctx, base, tc, GenerateQuickBlockSizes(), 1))
	if !ok {
		return cfg, false
	}
	cfg.BlockSize = best
	if !cfg.Quiet {
		printCalibrationOutput(cfg, out)
	}
	return cfg, true
}

// LoadCachedCalibration applies a valid cached profile to a configuration
// whose block size was not set explicitly.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.BlockSize != 0 {
		return cfg, false
	}
	if strings.TrimSpace(path) == "" {
		path = GetDefaultProfilePath()
	}
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.OptimalBlockSize == 0 {
		return cfg, false
	}
	tc := baseTuning(cfg)
	if err := tc.SetMultiplicationBlockSize(p.OptimalBlockSize); err != nil {
		return cfg, false
	}
	cfg.BlockSize = p.OptimalBlockSize
	return cfg, true
}
