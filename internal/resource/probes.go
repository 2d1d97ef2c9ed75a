package resource

import (
	"strings"

	"github.com/melih-ucgun/settle/internal/core"
)

// probePackage asks dpkg for the exact recorded status. Only the fully
// installed state counts; half-configured or config-files-only packages are
// unsatisfied and will be (re)installed.
func probePackage(ctx *core.SystemContext, name string) core.ProbeState {
	out, err := ctx.Runner.Output(ctx, "dpkg-query", "-W", "-f=${Status}", name)
	if err != nil {
		// Unknown package or dpkg missing entirely: either way, not installed.
		return core.StateUnsatisfied
	}
	if strings.TrimSpace(string(out)) == "install ok installed" {
		return core.StateSatisfied
	}
	return core.StateUnsatisfied
}

// probeMarker searches the file for the exact marker string.
func probeMarker(ctx *core.SystemContext, path, marker string) core.ProbeState {
	data, err := ctx.FS.ReadFile(path)
	if err != nil {
		return core.StateUnsatisfied // missing file means not configured
	}
	if strings.Contains(string(data), marker) {
		return core.StateSatisfied
	}
	return core.StateUnsatisfied
}

// probeService requires the unit to be both enabled and currently active.
func probeService(ctx *core.SystemContext, name string) core.ProbeState {
	out, err := ctx.Runner.Output(ctx, "systemctl", "is-enabled", name)
	if err != nil || strings.TrimSpace(string(out)) != "enabled" {
		return core.StateUnsatisfied
	}

	out, err = ctx.Runner.Output(ctx, "systemctl", "is-active", name)
	if err != nil || strings.TrimSpace(string(out)) != "active" {
		return core.StateUnsatisfied
	}

	return core.StateSatisfied
}

// probeUser checks account existence via getent, which works the same
// locally and over SSH.
func probeUser(ctx *core.SystemContext, name string) core.ProbeState {
	if _, err := ctx.Runner.Output(ctx, "getent", "passwd", name); err != nil {
		return core.StateUnsatisfied
	}
	return core.StateSatisfied
}

// probeGroupMember checks a "user/group" identifier against the user's
// current group list.
func probeGroupMember(ctx *core.SystemContext, id string) core.ProbeState {
	user, group, ok := strings.Cut(id, "/")
	if !ok {
		return core.StateUnsatisfied
	}
	out, err := ctx.Runner.Output(ctx, "id", "-Gn", user)
	if err != nil {
		return core.StateUnsatisfied
	}
	for _, g := range strings.Fields(string(out)) {
		if g == group {
			return core.StateSatisfied
		}
	}
	return core.StateUnsatisfied
}

// probeRepository checks that the apt source file exists and is non-empty.
func probeRepository(ctx *core.SystemContext, path string) core.ProbeState {
	info, err := ctx.FS.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return core.StateUnsatisfied
	}
	return core.StateSatisfied
}
