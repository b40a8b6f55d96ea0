package apperrors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel kinds. Every arithmetic or container failure wraps exactly one of
// them; callers branch with errors.Is.
var (
	// ErrOverflow reports a value that does not fit the target representation.
	ErrOverflow = errors.New("overflow")
	// ErrZeroDivision reports a division or modulo by zero, or zero raised to
	// a negative power.
	ErrZeroDivision = errors.New("division by zero")
	// ErrDomain reports malformed input, such as a non-finite float.
	ErrDomain = errors.New("invalid argument")
	// ErrAllocation reports a container that cannot grow any further.
	ErrAllocation = errors.New("allocation failure")
)

// Overflowf returns an error of kind ErrOverflow with a formatted context
// message and a stack trace.
func Overflowf(format string, args ...any) error {
	return errors.Wrapf(ErrOverflow, format, args...)
}

// ZeroDivisionf returns an error of kind ErrZeroDivision.
func ZeroDivisionf(format string, args ...any) error {
	return errors.Wrapf(ErrZeroDivision, format, args...)
}

// Domainf returns an error of kind ErrDomain.
func Domainf(format string, args ...any) error {
	return errors.Wrapf(ErrDomain, format, args...)
}

// Allocationf returns an error of kind ErrAllocation.
func Allocationf(format string, args ...any) error {
	return errors.Wrapf(ErrAllocation, format, args...)
}

// Kind returns the sentinel kind wrapped by err, or nil when err carries
// none of them.
func Kind(err error) error {
	for _, k := range []error{ErrOverflow, ErrZeroDivision, ErrDomain, ErrAllocation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
