// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatResultValue].

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/symcalc/internal/format"
	"github.com/agbru/symcalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// Quiet prints the bare value only.
	Quiet bool
	// Verbose shows the full value instead of truncating it.
	Verbose bool
	// HideDurations omits timings.
	HideDurations bool
}

// Result is one command's printable outcome.
type Result struct {
	// Label names the value, e.g. "add 2 3".
	Label string
	// Value is the decimal rendering.
	Value string
	// Details are extra "key: value" lines shown below the value.
	Details []Detail
	// Duration is how long the command ran.
	Duration time.Duration
}

// Detail is one labeled line of a Result.
type Detail struct {
	Key   string
	Value string
}

// FormatResultValue returns the value as displayed: long integers are
// truncated to their edges unless verbose is set.
func FormatResultValue(value string, verbose bool) string {
	if verbose {
		return value
	}
	s, truncated := format.TruncateDigits(value)
	if truncated {
		return s + " (truncated)"
	}
	return s
}

// DisplayQuietResult outputs a result in quiet mode (bare value).
func DisplayQuietResult(out io.Writer, res Result) {
	fmt.Fprintln(out, res.Value)
}

// DisplayResult prints a command result according to cfg.
func DisplayResult(out io.Writer, res Result, cfg OutputConfig) {
	if cfg.Quiet {
		DisplayQuietResult(out, res)
		return
	}
	fmt.Fprintf(out, "%s = %s%s%s\n", res.Label, ui.ColorGreen(), FormatResultValue(res.Value, cfg.Verbose), ui.ColorReset())
	for _, d := range res.Details {
		fmt.Fprintf(out, "  %s: %s%s%s\n", d.Key, ui.ColorCyan(), d.Value, ui.ColorReset())
	}
	if !cfg.HideDurations {
		fmt.Fprintf(out, "  time: %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
	}
}
