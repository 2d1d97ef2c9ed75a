package core

import (
	"fmt"
	"time"
)

// ActionClass selects the retry budget for a step. Network-bound actions
// (apt, downloads) get more attempts and a longer pause; local file edits
// retry once with a near-zero delay.
type ActionClass int

const (
	ClassLocal ActionClass = iota
	ClassNetwork
)

// Budget returns (max attempts, fixed delay between attempts).
func (c ActionClass) Budget() (int, time.Duration) {
	switch c {
	case ClassNetwork:
		return 3, 5 * time.Second
	default:
		return 2, 100 * time.Millisecond
	}
}

// Retry runs action up to attempts times with a fixed delay between
// failures. It returns the number of invocations made and, after the budget
// is exhausted, the last error wrapped in ErrActionExhausted.
//
// Errors are deliberately not classified: every failure is retried up to the
// bound, even ones that will clearly never succeed. Callers that need a
// fast failure path must check preconditions before invoking Retry.
func Retry(ctx *SystemContext, attempts int, delay time.Duration, action Action) (int, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		lastErr = action(ctx)
		if lastErr == nil {
			return i, nil
		}
		ctx.Logger.Debug(fmt.Sprintf("attempt %d/%d failed: %v", i, attempts, lastErr))

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		case <-time.After(delay):
		}
	}

	return attempts, fmt.Errorf("%w (%d attempts): %v", ErrActionExhausted, attempts, lastErr)
}
