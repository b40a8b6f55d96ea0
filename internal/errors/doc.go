// Package apperrors defines the error kinds raised by the arithmetic and
// container engines (overflow, zero division, domain, allocation) together
// with the structured application errors of the command-line layer.
//
// Error Wrapping Guidelines:
// Kind errors are built with github.com/cockroachdb/errors so that they
// carry a stack trace and remain matchable with errors.Is against the
// exported sentinels. Application error types implement Unwrap where they
// carry a cause, so errors.As works through any amount of wrapping.
package apperrors
