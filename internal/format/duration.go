package format

import (
	"strconv"
	"time"
)

// FormatExecutionDuration formats a command duration for display: "< 1µs"
// below a microsecond, whole microseconds below a millisecond, whole
// milliseconds below a second, and seconds rounded to the millisecond
// otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return "< 1µs"
	case d < time.Millisecond:
		return strconv.FormatInt(d.Microseconds(), 10) + "µs"
	case d < time.Second:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	return d.Round(time.Millisecond).String()
}
