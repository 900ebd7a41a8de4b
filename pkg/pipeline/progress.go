package pipeline

// ProgressEvent is a live update emitted while a run is in flight.
// Starting marks the beginning of a step; events carrying a Result report a
// completed action within the step.
type ProgressEvent struct {
	Step     string
	Title    string
	Message  string
	Result   *Result
	Starting bool
}

// ProgressCallback receives progress updates during a run.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}

// ProgressTracker collects progress events for later review.
type ProgressTracker struct {
	events []ProgressEvent
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	return t.events
}
