// Package verify runs the post-run sweep: an independent, read-only
// re-probe of every configured resource, producing an advisory tri-state
// report. It shares the probes with the engine but none of its machinery,
// so a bug in step bookkeeping cannot hide a broken result.
package verify

import (
	"fmt"

	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/resource"
)

// Check is one resource to re-probe. Optional resources (components the
// operator asked for but whose absence is survivable, like a desktop
// service) degrade to warnings instead of errors. Resources the operator did
// not request are never checked at all.
type Check struct {
	Resource resource.Resource
	Optional bool
}

// Status of a single verification line.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Line is one row of the report.
type Line struct {
	Resource core.ResourceRef
	Status   Status
	Detail   string
}

// Report summarizes the sweep. It never mutates anything and never aborts
// the process; the counts feed the operator-facing summary only.
type Report struct {
	Errors   int
	Warnings int
	Lines    []Line
}

// Run probes every check and builds the report.
func Run(ctx *core.SystemContext, checks []Check) *Report {
	report := &Report{}

	for _, c := range checks {
		ref := c.Resource.Ref()
		state := c.Resource.Probe(ctx)

		switch {
		case state == core.StateSatisfied:
			report.Lines = append(report.Lines, Line{Resource: ref, Status: StatusOK})
		case c.Optional:
			report.Warnings++
			report.Lines = append(report.Lines, Line{
				Resource: ref,
				Status:   StatusWarn,
				Detail:   fmt.Sprintf("optional resource not in desired state (%s)", state),
			})
		default:
			report.Errors++
			report.Lines = append(report.Lines, Line{
				Resource: ref,
				Status:   StatusFail,
				Detail:   fmt.Sprintf("mandatory resource not in desired state (%s)", state),
			})
		}
	}

	return report
}

// Print renders the report through the UI.
func (r *Report) Print(ui core.UI) {
	for _, line := range r.Lines {
		switch line.Status {
		case StatusOK:
			ui.Success(line.Resource.String())
		case StatusWarn:
			ui.Warning(fmt.Sprintf("%s: %s", line.Resource, line.Detail))
		default:
			ui.Error(fmt.Sprintf("%s: %s", line.Resource, line.Detail))
		}
	}
	ui.Printf("verification: %d error(s), %d warning(s)\n", r.Errors, r.Warnings)
}
