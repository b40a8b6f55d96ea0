// Package integer implements a hybrid arbitrary-precision integer.
//
// An Int stores small values inline, in two limbs of W bits plus a signed
// size (the static storage), and switches to an arbitrary-precision
// integer from an external library (the dynamic storage) the first time a
// result does not fit. The switch is one-way: a dynamic value is never
// demoted back to static storage, even when it shrinks.
//
// # Storage Model
//
//   - Static: limbs [2]uint64 holding W bits each, size in [-2, 2]. The
//     magnitude and the sign are stored separately, so negation never
//     overflows.
//   - Dynamic: *big.Int by default, *gmp.Int when built with the gmp tag.
//     The handle is never mutated once it belongs to an Int, so copying an
//     Int by assignment is a deep copy.
//
// # Semantics
//
// Division truncates toward zero and the remainder has the sign of the
// dividend, matching Go's native integer operators. Errors carry one of the
// kinds declared in package apperrors (overflow, zero division, domain).
package integer
