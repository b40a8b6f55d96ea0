// Package orchestration runs integer operations through evaluators bound to
// each static width and a math/big reference, concurrently, and reports
// whether the results agree. It decouples the work from presentation via the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
