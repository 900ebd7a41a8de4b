// Package pipeline runs the post-install steps sequentially and aggregates
// their outcomes into an inspectable summary. A step reports every action it
// took as a typed result; only a fatal result stops the run.
package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Status classifies the outcome of a single action.
type Status int

const (
	// StatusOK indicates the action completed.
	StatusOK Status = iota
	// StatusSkipped indicates the desired state was already in place.
	StatusSkipped
	// StatusWarning indicates a best-effort action failed; the run continues.
	StatusWarning
	// StatusFatal indicates the run cannot continue.
	StatusFatal
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusWarning:
		return "warning"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the outcome of one action within a step.
type Result struct {
	Step    string // step ID the action belongs to
	Message string // what was (or was not) done
	Detail  string // command output, error text
	Status  Status
}

// OK builds a success result.
func OK(step, message string) Result {
	return Result{Step: step, Message: message, Status: StatusOK}
}

// Skipped builds an already-in-desired-state result.
func Skipped(step, message string) Result {
	return Result{Step: step, Message: message, Status: StatusSkipped}
}

// Warn builds a recovered-failure result.
func Warn(step, message string, err error) Result {
	r := Result{Step: step, Message: message, Status: StatusWarning}
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}

// Fatal builds a run-aborting result.
func Fatal(step, message string, err error) Result {
	r := Result{Step: step, Message: message, Status: StatusFatal}
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}

// Step is one stage of the post-install pipeline.
type Step interface {
	ID() string
	Title() string
	Run(progress ProgressCallback) []Result
}

// Summary aggregates an entire run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Results   []Result
	Aborted   bool
}

// Counts returns totals per status.
func (s *Summary) Counts() (ok, skipped, warnings, fatals int) {
	for _, r := range s.Results {
		switch r.Status {
		case StatusOK:
			ok++
		case StatusSkipped:
			skipped++
		case StatusWarning:
			warnings++
		case StatusFatal:
			fatals++
		}
	}
	return
}

// Warnings returns all recovered failures.
func (s *Summary) Warnings() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusWarning {
			out = append(out, r)
		}
	}
	return out
}

// Runner executes steps in order.
type Runner struct {
	steps    []Step
	progress ProgressCallback
}

// NewRunner creates a runner over the given steps.
func NewRunner(steps []Step, progress ProgressCallback) *Runner {
	if progress == nil {
		progress = NoOpProgress
	}
	return &Runner{steps: steps, progress: progress}
}

// Run executes every step sequentially. A fatal result aborts the remainder;
// warnings do not.
func (r *Runner) Run() *Summary {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	for _, step := range r.steps {
		r.progress(ProgressEvent{Step: step.ID(), Title: step.Title(), Starting: true})

		results := step.Run(r.progress)
		summary.Results = append(summary.Results, results...)

		for _, res := range results {
			r.progress(ProgressEvent{Step: step.ID(), Title: step.Title(), Result: &res})
			if res.Status == StatusFatal {
				summary.Aborted = true
				summary.Duration = time.Since(summary.StartedAt)
				return summary
			}
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	return summary
}
