package core

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateCondition evaluates a step's `when` expression against host facts.
// The expression must produce a boolean.
func EvaluateCondition(expression string, ctx *SystemContext) (bool, error) {
	env := map[string]any{
		"os":       ctx.OS,
		"distro":   ctx.Distro,
		"version":  ctx.Version,
		"codename": ctx.Codename,
		"hostname": ctx.Hostname,
		"user":     ctx.User,
		"target":   ctx.TargetUser,
		"dry_run":  ctx.DryRun,
	}

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile: %w", err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval: %w", err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not produce a boolean", expression)
	}
	return result, nil
}
