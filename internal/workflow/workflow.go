// Package workflow runs a fixed list of side-effect steps in order and
// reports the outcome of each one.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSkipped marks steps that never ran because the context was done.
var ErrSkipped = errors.New("step skipped")

// Step is one named unit of work.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError ties a failure to the step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result records how a single step went.
type Result struct {
	Step     string
	Err      error
	Duration time.Duration
}

// Report collects the results of every step, in execution order.
type Report struct {
	Results []Result
}

// Failed returns the results whose step did not succeed.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every step failure into one error, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, &StepError{Step: res.Step, Err: res.Err})
		}
	}
	return errors.Join(errs...)
}

// Run executes steps sequentially. A failing step does not stop the ones
// after it; a cancelled context does, and the remainder are recorded with
// ErrSkipped.
func Run(ctx context.Context, steps ...Step) Report {
	report := Report{Results: make([]Result, 0, len(steps))}
	for _, step := range steps {
		if ctx.Err() != nil {
			report.Results = append(report.Results, Result{
				Step: step.Name,
				Err:  fmt.Errorf("%w: %w", ErrSkipped, ctx.Err()),
			})
			continue
		}
		start := time.Now()
		err := step.Run(ctx)
		report.Results = append(report.Results, Result{
			Step:     step.Name,
			Err:      err,
			Duration: time.Since(start),
		})
	}
	return report
}
