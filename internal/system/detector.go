// Package system fills the SystemContext with facts about the target host.
package system

import (
	"os/user"
	"strings"

	"github.com/melih-ucgun/settle/internal/core"
)

// Detect fills host facts through the context's Runner and FS, so the same
// code describes the local machine and an SSH target.
func Detect(ctx *core.SystemContext) {
	info := readOSRelease(ctx)

	ctx.OS = "linux"
	if id, ok := info["ID"]; ok {
		ctx.Distro = id
	}
	if v, ok := info["VERSION_ID"]; ok {
		ctx.Version = v
	}
	// Apt suites are published by codename, not version number.
	if c, ok := info["VERSION_CODENAME"]; ok {
		ctx.Codename = c
	}

	if out, err := ctx.Runner.Output(ctx, "hostname"); err == nil {
		ctx.Hostname = strings.TrimSpace(string(out))
	}
	if ctx.User == "" {
		if out, err := ctx.Runner.Output(ctx, "whoami"); err == nil {
			ctx.User = strings.TrimSpace(string(out))
		}
	}
}

// TargetHome resolves the home directory of the provisioning target account.
// Falls back to the conventional path when the account does not exist yet.
func TargetHome(ctx *core.SystemContext, name string) string {
	if out, err := ctx.Runner.Output(ctx, "getent", "passwd", name); err == nil {
		fields := strings.Split(strings.TrimSpace(string(out)), ":")
		if len(fields) >= 6 && fields[5] != "" {
			return fields[5]
		}
	}
	if name == "root" {
		return "/root"
	}
	return "/home/" + name
}

// IsRoot reports whether the current process runs with root privileges on
// the local host.
func IsRoot() bool {
	u, err := user.Current()
	if err != nil {
		return false
	}
	return u.Uid == "0"
}

func readOSRelease(ctx *core.SystemContext) map[string]string {
	info := make(map[string]string)
	data, err := ctx.FS.ReadFile("/etc/os-release")
	if err != nil {
		return info
	}

	for _, line := range strings.Split(string(data), "\n") {
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			info[parts[0]] = strings.Trim(parts[1], "\"")
		}
	}
	return info
}
