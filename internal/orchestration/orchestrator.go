package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel, so evaluators never block on a slow display.
const ProgressBufferMultiplier = 2

// ExecuteComparisons runs req through every evaluator concurrently and
// collects one result per evaluator, in evaluator order.
//
// Evaluator failures are recorded in the result rather than cancelling the
// group: a zero-division in one width is an expected outcome that every other
// width must reproduce.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - evaluators: The evaluators to run.
//   - req: The operation and operands.
//   - progressReporter: Displays completion (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []ComparisonResult: One result per evaluator.
func ExecuteComparisons(ctx context.Context, evaluators []Evaluator, req Request, progressReporter ProgressReporter, out io.Writer) []ComparisonResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]ComparisonResult, len(evaluators))
	progressChan := make(chan ProgressUpdate, len(evaluators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(evaluators), out)

	for i, ev := range evaluators {
		g.Go(func() error {
			start := time.Now()
			o, err := ev.Evaluate(ctx, req)
			results[i] = ComparisonResult{
				Name: ev.Name(), Value: o.Value, Static: o.Static,
				Duration: time.Since(start), Err: err,
			}
			progressChan <- ProgressUpdate{Index: i, Name: ev.Name()}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// sameFailure reports whether two errors are the same outcome: both nil, or
// both carrying the same kind.
func sameFailure(a, b error) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return apperrors.Kind(a) == apperrors.Kind(b)
}

// AnalyzeComparisonResults checks that every evaluator produced the same
// value, or failed with the same error kind, and prints a summary.
//
// Results are sorted by success and then duration before presentation.
//
// Returns:
//   - int: ExitSuccess when all evaluators agree, ExitErrorMismatch when they
//     do not, or the presenter's code when every evaluator failed alike.
func AnalyzeComparisonResults(results []ComparisonResult, presenter ResultPresenter, out io.Writer) int {
	if len(results) == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No evaluator ran.\n")
		return apperrors.ExitErrorGeneric
	}
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	presenter.PresentComparisonTable(results, out)

	ref := results[0]
	for _, res := range results[1:] {
		if !sameFailure(res.Err, ref.Err) || (res.Err == nil && res.Value != ref.Value) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree.\n", ref.Name, res.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	if ref.Err != nil {
		fmt.Fprintf(out, "\nGlobal Status: Consistent failure across all widths.\n")
		return presenter.HandleError(ref.Err, 0, out)
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. All %d results are consistent.\n", len(results))
	return apperrors.ExitSuccess
}
