package core

import "errors"

// Step failure classes. Every step failure wraps exactly one of these, so
// callers can branch on errors.Is without parsing messages. None of them
// aborts a run; fatal preconditions (lock, privilege, invalid input) are
// checked once in the command layer before the engine starts.
var (
	// ErrPreconditionMissing: a binary the step needs is absent on the target.
	ErrPreconditionMissing = errors.New("required command not available")

	// ErrBackupFailed: the pre-mutation snapshot could not be created. The
	// action is never attempted in this case.
	ErrBackupFailed = errors.New("backup failed")

	// ErrActionExhausted: the retry budget ran out.
	ErrActionExhausted = errors.New("action failed after all attempts")

	// ErrVerificationFailed: the action reported success but the re-probe
	// still sees the resource unsatisfied.
	ErrVerificationFailed = errors.New("resource still unsatisfied after action")
)
