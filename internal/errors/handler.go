package apperrors

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// The CLI passes its theme; tests pass a colorless implementation.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleCalculationError prints a failed command's error and maps it to an
// exit code. Context errors map to the timeout and canceled codes, kind
// errors and everything else to the generic code.
//
// Parameters:
//   - err: The error returned by the command, nil on success.
//   - duration: How long the command ran before failing.
//   - out: The writer for the error report.
//   - colors: The color provider for highlighting.
//
// Returns:
//   - int: The exit code.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s", duration)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sCommand timed out%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCommand canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
		return ExitErrorCanceled
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	}
	fmt.Fprintf(out, "%sError%s: %v%s\n", colors.Red(), msgSuffix, err, colors.Reset())
	return ExitErrorGeneric
}
