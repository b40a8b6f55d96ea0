package orchestration

import (
	"io"
	"sync"
	"time"
)

// ComparisonResult encapsulates the outcome of one evaluator run.
// It serves as the shared domain type between orchestration and presentation layers.
type ComparisonResult struct {
	// Name is the evaluator identifier (e.g., "w32" or "big").
	Name string
	// Value is the decimal result. It is empty if an error occurred.
	Value string
	// Static reports whether the result stayed in static storage.
	Static bool
	// Duration is the time taken by the evaluator.
	Duration time.Duration
	// Err contains any error that occurred during the evaluation.
	Err error
}

// ProgressUpdate signals that the evaluator at Index finished.
type ProgressUpdate struct {
	Index int
	Name  string
}

// ProgressReporter defines the interface for displaying comparison progress.
// Implementations handle the visual representation (spinners, progress
// bars) while the orchestration layer coordinates the evaluations.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEvaluators int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEvaluators int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numEvaluators int, out io.Writer) {
	f(wg, progressChan, numEvaluators, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// ResultPresenter defines the interface for presenting comparison results.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []ComparisonResult, out io.Writer)

	// HandleError reports a failure and returns the exit code for it.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
