package core

import "time"

// ActionTaken describes what a step run ended up doing.
type ActionTaken string

const (
	ActionSkipped  ActionTaken = "skipped"
	ActionExecuted ActionTaken = "executed"
	ActionFailed   ActionTaken = "failed"
)

// ResourceRef identifies the resource a step manages, for logs and reports.
// Behavior is never dispatched on these strings; the typed resource model
// lives in internal/resource.
type ResourceRef struct {
	Kind string
	ID   string
}

func (r ResourceRef) String() string {
	return r.Kind + ":" + r.ID
}

// StepResult is the outcome of one engine step.
type StepResult struct {
	Step     string
	Resource ResourceRef
	Action   ActionTaken
	Attempts int
	Duration time.Duration
	Err      error
	Message  string
}

// RunReport is the in-memory log of a run: one StepResult per step, in
// execution order.
type RunReport struct {
	RunID   string
	Started time.Time
	Results []StepResult
}

func (r *RunReport) Append(res StepResult) {
	r.Results = append(r.Results, res)
}

// Failed returns the number of failed steps.
func (r *RunReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Action == ActionFailed {
			n++
		}
	}
	return n
}

// Executed returns the number of steps that performed a mutation.
func (r *RunReport) Executed() int {
	n := 0
	for _, res := range r.Results {
		if res.Action == ActionExecuted {
			n++
		}
	}
	return n
}
