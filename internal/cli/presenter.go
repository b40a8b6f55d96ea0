package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/format"
	"github.com/agbru/symcalc/internal/orchestration"
	"github.com/agbru/symcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for running evaluators.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numEvaluators int, out io.Writer) {
	DisplayProgress(wg, progressChan, numEvaluators, out)
}

// CLIColorProvider adapts the current ui theme to apperrors.ColorProvider.
type CLIColorProvider struct{}

// Red returns the theme's error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the theme's warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the theme's reset sequence.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// When HideDurations is set, timings are omitted so that transcripts stay
// reproducible.
type CLIResultPresenter struct {
	HideDurations bool
}

// Verify interface compliance.
var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays the comparison summary table with
// evaluator names, durations, storage and status. Uses manual padding to
// correctly handle ANSI color codes.
func (p CLIResultPresenter) PresentComparisonTable(results []orchestration.ComparisonResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	maxNameLen := 5     // "Width" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		maxNameLen = max(maxNameLen, len(res.Name))
		maxDurationLen = max(maxDurationLen, len(p.duration(res.Duration)))
	}

	fmt.Fprintf(out, "%sWidth%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-5),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%sFailure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			storage := "dynamic"
			if res.Static {
				storage = "static"
			}
			value, _ := format.TruncateDigits(res.Value)
			status = fmt.Sprintf("%sOK%s %s [%s]", ui.ColorGreen(), ui.ColorReset(), value, storage)
		}
		duration := p.duration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

func (p CLIResultPresenter) duration(d time.Duration) string {
	if p.HideDurations {
		return "-"
	}
	return format.FormatExecutionDuration(d)
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// HandleError handles command errors and returns an appropriate exit code.
func (p CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if p.HideDurations {
		duration = 0
	}
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats shows memory statistics after an expansion.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, pauseTotalNs uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	if pauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms (GC disabled)\n")
	}
}
