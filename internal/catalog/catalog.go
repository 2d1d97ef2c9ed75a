// Package catalog turns the manifest into the ordered step sequence for a
// Debian workstation: account, hostname, base packages, Docker, desktop,
// dotfile blocks, Node. Ordering is fixed here; the engine executes exactly
// what this package hands it, in this order.
package catalog

import (
	"fmt"

	"github.com/melih-ucgun/settle/internal/config"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/verify"
)

// Build assembles the full step list for the given manifest. Dependencies
// between steps (user before that user's dotfiles, Docker repo before Docker
// packages) are encoded purely by position.
func Build(ctx *core.SystemContext, cfg *config.Config) ([]core.Step, error) {
	var steps []core.Step

	steps = append(steps, userStep(cfg))
	if cfg.Hostname != "" {
		steps = append(steps, hostnameStep(cfg.Hostname))
	}

	steps = append(steps, packageSteps(cfg.Packages)...)

	if cfg.Components.Docker {
		steps = append(steps, dockerSteps(cfg)...)
	}
	if cfg.Components.Desktop {
		steps = append(steps, desktopSteps()...)
	}

	dotfiles, err := dotfileSteps(ctx, cfg)
	if err != nil {
		return nil, err
	}
	steps = append(steps, dotfiles...)

	if cfg.Components.Node {
		steps = append(steps, nodeSteps(ctx, cfg)...)
	}

	return steps, nil
}

// Checks lists the resources the verification pass re-probes. Only what the
// manifest actually requested is included; components the operator did not
// ask for are never checked.
func Checks(ctx *core.SystemContext, cfg *config.Config) []verify.Check {
	var checks []verify.Check

	checks = append(checks, userChecks(cfg)...)
	checks = append(checks, packageChecks(cfg.Packages)...)

	if cfg.Components.Docker {
		checks = append(checks, dockerChecks(cfg)...)
	}
	if cfg.Components.Desktop {
		checks = append(checks, desktopChecks()...)
	}

	checks = append(checks, dotfileChecks(ctx, cfg)...)

	if cfg.Components.Node {
		checks = append(checks, nodeChecks(ctx))
	}

	return checks
}

// PlanChange is one proposed mutation from plan mode.
type PlanChange struct {
	Step     string
	Resource core.ResourceRef
	Diff     string
}

// Plan probes every step without mutating anything and reports the ones
// that would act, with a content diff for dotfile insertions.
func Plan(ctx *core.SystemContext, cfg *config.Config) ([]PlanChange, error) {
	steps, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	diffs, err := dotfileDiffs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var changes []PlanChange
	for _, step := range steps {
		if step.When != "" {
			ok, err := core.EvaluateCondition(step.When, ctx)
			if err != nil {
				return nil, fmt.Errorf("step %s: %w", step.Name, err)
			}
			if !ok {
				continue
			}
		}
		if step.Probe(ctx) == core.StateSatisfied {
			continue
		}
		changes = append(changes, PlanChange{
			Step:     step.Name,
			Resource: step.Resource,
			Diff:     diffs[step.Name],
		})
	}

	return changes, nil
}
