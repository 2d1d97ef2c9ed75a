package catalog

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/settle/internal/config"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/resource"
	"github.com/melih-ucgun/settle/internal/verify"
)

// dotfileSteps builds one marker-guarded insertion step per configured
// block. Paths and block bodies are templates rendered against the
// SystemContext, so "{{ .TargetHome }}/.bashrc" works in the manifest.
func dotfileSteps(ctx *core.SystemContext, cfg *config.Config) ([]core.Step, error) {
	steps := make([]core.Step, 0, len(cfg.Dotfiles))

	for _, d := range cfg.Dotfiles {
		path, block, err := renderDotfile(ctx, d)
		if err != nil {
			return nil, err
		}

		res := resource.Marker(dotfileID(d), path, d.Marker)
		marker := d.Marker

		steps = append(steps, core.Step{
			Name:     "dotfile:" + dotfileID(d),
			Resource: res.Ref(),
			Probe:    res.AsProbe(),
			Action: func(ctx *core.SystemContext) error {
				return resource.EnsureBlock(ctx, path, marker, block)
			},
			BackupTargets: []string{path},
			Class:         core.ClassLocal,
			Remedy:        fmt.Sprintf("append the block guarded by %q to %s", marker, path),
		})
	}

	return steps, nil
}

// dotfileDiffs produces plan-mode previews keyed by step name.
func dotfileDiffs(ctx *core.SystemContext, cfg *config.Config) (map[string]string, error) {
	diffs := make(map[string]string, len(cfg.Dotfiles))

	for _, d := range cfg.Dotfiles {
		path, block, err := renderDotfile(ctx, d)
		if err != nil {
			return nil, err
		}

		current := ""
		if data, rerr := ctx.FS.ReadFile(path); rerr == nil {
			current = string(data)
		}
		if strings.Contains(current, d.Marker) {
			continue
		}

		desired := current
		if desired != "" && !strings.HasSuffix(desired, "\n") {
			desired += "\n"
		}
		desired += resource.RenderBlock(d.Marker, block)

		diffs["dotfile:"+dotfileID(d)] = core.GenerateDiff(current, desired)
	}

	return diffs, nil
}

func dotfileChecks(ctx *core.SystemContext, cfg *config.Config) []verify.Check {
	checks := make([]verify.Check, 0, len(cfg.Dotfiles))
	for _, d := range cfg.Dotfiles {
		// Re-render the path with the same context the step used, so the
		// probe looks at the file the step actually wrote.
		path := d.Path
		if rendered, err := core.ExecuteTemplate(d.Path, ctx); err == nil {
			path = rendered
		}
		checks = append(checks, verify.Check{
			Resource: resource.Marker(dotfileID(d), path, d.Marker),
		})
	}
	return checks
}

func renderDotfile(ctx *core.SystemContext, d config.Dotfile) (path string, block string, err error) {
	path, err = core.ExecuteTemplate(d.Path, ctx)
	if err != nil {
		return "", "", fmt.Errorf("dotfile %s: render path: %w", dotfileID(d), err)
	}
	block, err = core.ExecuteTemplate(d.Block, ctx)
	if err != nil {
		return "", "", fmt.Errorf("dotfile %s: render block: %w", dotfileID(d), err)
	}
	return path, block, nil
}

func dotfileID(d config.Dotfile) string {
	if d.ID != "" {
		return d.ID
	}
	return d.Path
}
