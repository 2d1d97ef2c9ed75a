package resource

import (
	"fmt"
	"strings"

	"github.com/melih-ucgun/settle/internal/core"
)

// Mutation helpers behind the engine's Action contract. All external
// commands run as argument vectors; nothing passes through a shell.

// InstallPackages installs the named packages with apt-get.
func InstallPackages(ctx *core.SystemContext, names ...string) error {
	args := append([]string{"install", "-y"}, names...)
	if out, err := ctx.Runner.CombinedOutput(ctx, "apt-get", args...); err != nil {
		return fmt.Errorf("apt-get install %s: %w: %s", strings.Join(names, " "), err, firstLine(out))
	}
	return nil
}

// UpdateAptIndex refreshes the package index, needed after a new repository
// file lands.
func UpdateAptIndex(ctx *core.SystemContext) error {
	if out, err := ctx.Runner.CombinedOutput(ctx, "apt-get", "update"); err != nil {
		return fmt.Errorf("apt-get update: %w: %s", err, firstLine(out))
	}
	return nil
}

// EnsureBlock appends the marker line and its block to the file when the
// marker is absent. The marker is the only idempotency test, so equivalent
// content without the marker is appended again; that matches the probe.
func EnsureBlock(ctx *core.SystemContext, path, marker, block string) error {
	current, err := ctx.FS.ReadFile(path)
	if err != nil {
		current = nil // file will be created
	}

	content := string(current)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += marker + "\n" + strings.TrimRight(block, "\n") + "\n"

	return ctx.FS.WriteFile(path, []byte(content), 0o644)
}

// RenderBlock shows what EnsureBlock would append, for plan previews.
func RenderBlock(marker, block string) string {
	return marker + "\n" + strings.TrimRight(block, "\n") + "\n"
}

// EnableService enables and starts a systemd unit.
func EnableService(ctx *core.SystemContext, name string) error {
	if out, err := ctx.Runner.CombinedOutput(ctx, "systemctl", "enable", name); err != nil {
		return fmt.Errorf("systemctl enable %s: %w: %s", name, err, firstLine(out))
	}
	if out, err := ctx.Runner.CombinedOutput(ctx, "systemctl", "start", name); err != nil {
		return fmt.Errorf("systemctl start %s: %w: %s", name, err, firstLine(out))
	}
	return nil
}

// CreateUser creates the account with useradd, or appends groups/shell with
// usermod when it already exists.
func CreateUser(ctx *core.SystemContext, name, shell string, groups []string) error {
	_, lookupErr := ctx.Runner.Output(ctx, "getent", "passwd", name)

	if lookupErr != nil {
		args := []string{"-m"}
		if shell != "" {
			args = append(args, "-s", shell)
		}
		if len(groups) > 0 {
			args = append(args, "-G", strings.Join(groups, ","))
		}
		args = append(args, name)
		if out, err := ctx.Runner.CombinedOutput(ctx, "useradd", args...); err != nil {
			return fmt.Errorf("useradd %s: %w: %s", name, err, firstLine(out))
		}
		return nil
	}

	var args []string
	if len(groups) > 0 {
		args = append(args, "-aG", strings.Join(groups, ","))
	}
	if shell != "" {
		args = append(args, "-s", shell)
	}
	if len(args) == 0 {
		return nil
	}
	args = append(args, name)
	if out, err := ctx.Runner.CombinedOutput(ctx, "usermod", args...); err != nil {
		return fmt.Errorf("usermod %s: %w: %s", name, err, firstLine(out))
	}
	return nil
}

// WriteRepository writes an apt source file.
func WriteRepository(ctx *core.SystemContext, path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return ctx.FS.WriteFile(path, []byte(content), 0o644)
}

// SetHostname applies the hostname via hostnamectl.
func SetHostname(ctx *core.SystemContext, name string) error {
	if out, err := ctx.Runner.CombinedOutput(ctx, "hostnamectl", "set-hostname", name); err != nil {
		return fmt.Errorf("hostnamectl set-hostname %s: %w: %s", name, err, firstLine(out))
	}
	return nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
