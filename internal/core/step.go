package core

import (
	"fmt"
	"time"
)

// Step is one idempotent unit of work: probe the resource, mutate only if
// needed, verify, record. Steps are supplied by the catalogue; the engine
// never inspects what a step actually does.
type Step struct {
	Name     string
	Resource ResourceRef

	Probe  Probe
	Action Action

	// When is an optional expr condition; the step is skipped when it
	// evaluates to false (e.g. "distro == 'debian'").
	When string

	// Requires lists binaries the action needs on the target. A missing one
	// fails the step with ErrPreconditionMissing before anything runs.
	Requires []string

	// BackupTargets are mutable files snapshotted before the action runs.
	// A failed snapshot blocks the action.
	BackupTargets []string

	// Class selects the retry budget.
	Class ActionClass

	// Optional marks resources whose absence is a warning, not an error,
	// in the verification pass.
	Optional bool

	// Remedy is a manual fix hint shown when the step fails.
	Remedy string
}

// BackupGuard snapshots a mutable target before a step changes it. A missing
// target is a no-op success (empty path).
type BackupGuard interface {
	Snapshot(path string) (string, error)
}

// ProgressLedger records the name of the step currently in flight. Only the
// last value survives; it exists so a human can tell, after a crash, which
// step was running.
type ProgressLedger interface {
	Record(step string) error
}

// Engine drives an ordered sequence of steps, strictly one at a time. Step
// order is the caller's responsibility; the engine does no reordering and
// infers no dependencies.
type Engine struct {
	Context *SystemContext
	Backups BackupGuard
	Ledger  ProgressLedger
}

func NewEngine(ctx *SystemContext, backups BackupGuard, ledger ProgressLedger) *Engine {
	return &Engine{
		Context: ctx,
		Backups: backups,
		Ledger:  ledger,
	}
}

// Run executes all steps in order and returns the full report. A failing
// step is logged and recorded; the run continues so one broken step (no
// network, say) does not block unrelated ones.
func (e *Engine) Run(runID string, steps []Step) *RunReport {
	report := &RunReport{
		RunID:   runID,
		Started: time.Now(),
	}

	for _, step := range steps {
		// A cancelled run stops here: remaining steps must not touch the
		// ledger or fire actions against a dead context.
		if e.Context.Err() != nil {
			break
		}
		res := e.RunStep(step)
		report.Append(res)

		switch res.Action {
		case ActionFailed:
			e.Context.Logger.Error(fmt.Sprintf("[%s] %s failed: %v", res.Resource, step.Name, res.Err))
			if step.Remedy != "" {
				e.Context.Logger.Warn(fmt.Sprintf("[%s] suggested fix: %s", res.Resource, step.Remedy))
			}
		case ActionExecuted:
			e.Context.Logger.Info(fmt.Sprintf("[%s] %s", res.Resource, res.Message))
		default:
			e.Context.Logger.Debug(fmt.Sprintf("[%s] %s: %s", res.Resource, step.Name, res.Message))
		}
	}

	return report
}

// RunStep executes a single step through the full probe/backup/retry/verify
// cycle.
func (e *Engine) RunStep(step Step) StepResult {
	started := time.Now()
	result := StepResult{
		Step:     step.Name,
		Resource: step.Resource,
	}

	// Breadcrumb first: if the process dies mid-step, the ledger names the
	// step that was in flight.
	if e.Ledger != nil {
		if err := e.Ledger.Record(step.Name); err != nil {
			e.Context.Logger.Warn(fmt.Sprintf("progress ledger write failed: %v", err))
		}
	}

	finish := func(r StepResult) StepResult {
		r.Duration = time.Since(started)
		return r
	}

	// 0. Condition
	if step.When != "" {
		shouldRun, err := EvaluateCondition(step.When, e.Context)
		if err != nil {
			result.Action = ActionFailed
			result.Err = fmt.Errorf("condition %q: %w", step.When, err)
			return finish(result)
		}
		if !shouldRun {
			result.Action = ActionSkipped
			result.Message = "condition not met"
			return finish(result)
		}
	}

	// 1. Probe: already satisfied means no backup, no action, nothing.
	if step.Probe(e.Context) == StateSatisfied {
		result.Action = ActionSkipped
		result.Message = "already in desired state"
		return finish(result)
	}

	// 2. Per-step preconditions
	for _, bin := range step.Requires {
		if !e.Context.Runner.LookPath(bin) {
			result.Action = ActionFailed
			result.Err = fmt.Errorf("%w: %s", ErrPreconditionMissing, bin)
			return finish(result)
		}
	}

	if e.Context.DryRun {
		result.Action = ActionSkipped
		result.Message = "dry-run: mutation suppressed"
		return finish(result)
	}

	// 3. Backup before the first byte changes. A target is never mutated
	// unprotected, so a failed snapshot blocks the action entirely.
	for _, target := range step.BackupTargets {
		if e.Backups == nil {
			break
		}
		if path, err := e.Backups.Snapshot(target); err != nil {
			result.Action = ActionFailed
			result.Err = fmt.Errorf("%w: %s: %v", ErrBackupFailed, target, err)
			return finish(result)
		} else if path != "" {
			e.Context.Logger.Debug(fmt.Sprintf("[%s] backup: %s -> %s", result.Resource, target, path))
		}
	}

	// 4. Execute through the retry budget.
	attempts, delay := step.Class.Budget()
	n, err := Retry(e.Context, attempts, delay, step.Action)
	result.Attempts = n
	if err != nil {
		result.Action = ActionFailed
		result.Err = err
		return finish(result)
	}

	// 5. Re-probe. An action that reports success but leaves the resource
	// unsatisfied is a silent failure and counts as one.
	if step.Probe(e.Context) != StateSatisfied {
		result.Action = ActionFailed
		result.Err = fmt.Errorf("%w: %s", ErrVerificationFailed, result.Resource)
		return finish(result)
	}

	result.Action = ActionExecuted
	result.Message = "converged"
	return finish(result)
}
