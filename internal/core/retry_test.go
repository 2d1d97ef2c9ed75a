package core_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/melih-ucgun/settle/internal/core"
)

func newTestContext() *core.SystemContext {
	ctx := core.NewSystemContext(nil, false)
	ctx.Logger = core.NewDefaultLogger(io.Discard, core.LevelError)
	return ctx
}

func contextWithCancel(ctx *core.SystemContext) (*core.SystemContext, context.CancelFunc) {
	inner, cancel := context.WithCancel(context.Background())
	clone := *ctx
	clone.Context = inner
	return &clone, cancel
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	ctx := newTestContext()
	calls := 0

	n, err := core.Retry(ctx, 3, time.Millisecond, func(*core.SystemContext) error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || calls != 1 {
		t.Errorf("expected exactly 1 invocation, got n=%d calls=%d", n, calls)
	}
}

func TestRetry_FlakySucceedsThirdAttempt(t *testing.T) {
	ctx := newTestContext()
	calls := 0

	n, err := core.Retry(ctx, 3, time.Millisecond, func(*core.SystemContext) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success on attempt 3, got %v", err)
	}
	if n != 3 || calls != 3 {
		t.Errorf("expected 3 invocations, got n=%d calls=%d", n, calls)
	}
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	ctx := newTestContext()
	calls := 0
	permanent := errors.New("invalid argument")

	n, err := core.Retry(ctx, 4, 0, func(*core.SystemContext) error {
		calls++
		return permanent
	})

	if !errors.Is(err, core.ErrActionExhausted) {
		t.Fatalf("expected ErrActionExhausted, got %v", err)
	}
	// Every failure is retried to the bound, even clearly permanent ones.
	// Never fewer invocations on failure, never more.
	if n != 4 || calls != 4 {
		t.Errorf("expected exactly 4 invocations, got n=%d calls=%d", n, calls)
	}
}

func TestRetry_ZeroAttemptsClampedToOne(t *testing.T) {
	ctx := newTestContext()
	calls := 0

	_, _ = core.Retry(ctx, 0, 0, func(*core.SystemContext) error {
		calls++
		return errors.New("fail")
	})

	if calls != 1 {
		t.Errorf("expected 1 invocation, got %d", calls)
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx := newTestContext()
	cancelled, cancel := contextWithCancel(ctx)
	calls := 0

	_, err := core.Retry(cancelled, 5, 50*time.Millisecond, func(*core.SystemContext) error {
		calls++
		cancel()
		return errors.New("fail")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected cancellation after first attempt, got %d calls", calls)
	}
}
