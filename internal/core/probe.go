package core

// ProbeState is the answer to "is this resource already in its desired
// state?".
type ProbeState int

const (
	// StateUnknown: the probe could not decide (e.g. transport failure).
	// The engine treats it as not-satisfied before the action and as a
	// verification failure after it.
	StateUnknown ProbeState = iota
	StateSatisfied
	StateUnsatisfied
)

func (s ProbeState) String() string {
	switch s {
	case StateSatisfied:
		return "satisfied"
	case StateUnsatisfied:
		return "unsatisfied"
	default:
		return "unknown"
	}
}

// Probe checks the current state of a resource. Probes must be total over
// their input domain: a missing file or missing probing tool means
// StateUnsatisfied, never a panic or an error. Probes must not mutate
// anything; that invariant is enforced by review, not by the type system.
type Probe func(ctx *SystemContext) ProbeState

// Action performs the mutation that moves a resource toward its desired
// state. Partial effects on a failed attempt are allowed; the engine
// snapshots declared backup targets before the first attempt.
type Action func(ctx *SystemContext) error
