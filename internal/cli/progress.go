package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/briandowns/spinner"

	"github.com/agbru/symcalc/internal/orchestration"
)

// DisplayProgress shows a spinner with a consolidated progress bar while
// evaluators run. Each update marks one evaluator as finished. It returns,
// calling wg.Done, once progressChan is closed.
//
// Parameters:
//   - wg: The WaitGroup to signal on return.
//   - progressChan: Completion updates from the orchestrator.
//   - numEvaluators: The number of evaluators being tracked.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numEvaluators int, out io.Writer) {
	defer wg.Done()
	if numEvaluators <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressState(numEvaluators)
	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(state, ""))
	s.Start()
	defer s.Stop()

	for update := range progressChan {
		state.Update(update.Index, 1.0)
		s.UpdateSuffix(progressSuffix(state, update.Name))
	}
}

// progressSuffix renders the text shown after the spinner glyph.
func progressSuffix(state *ProgressState, last string) string {
	avg := state.CalculateAverage()
	suffix := fmt.Sprintf(" %s %3.0f%%", progressBar(avg, ProgressBarWidth), avg*100)
	if last != "" {
		suffix += " (" + last + " done)"
	}
	return suffix
}
