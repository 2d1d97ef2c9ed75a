package core

import (
	"context"
	"os/exec"
)

// Runner executes external commands as argument vectors. There is no shell
// in between, so arguments are never re-interpreted. Implementations exist
// for the local host (RealRunner) and for SSH targets.
type Runner interface {
	// CombinedOutput runs the command and returns stdout+stderr.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	// Output runs the command and returns stdout only.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// LookPath reports whether the named binary is resolvable on the target.
	LookPath(name string) bool
}

// RealRunner implements Runner using os/exec on the local host.
type RealRunner struct{}

func (r *RealRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (r *RealRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (r *RealRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// RunCommand runs a command through the context's runner and returns its
// combined output as a string.
func RunCommand(ctx *SystemContext, name string, args ...string) (string, error) {
	out, err := ctx.Runner.CombinedOutput(ctx, name, args...)
	return string(out), err
}
