package catalog

import (
	"path/filepath"

	"github.com/melih-ucgun/settle/internal/config"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/resource"
	"github.com/melih-ucgun/settle/internal/verify"
)

const nvmInstallURL = "https://raw.githubusercontent.com/nvm-sh/nvm/v0.40.1/install.sh"

const nvmMarker = "# settle:nvm"

const nvmBlock = `export NVM_DIR="$HOME/.nvm"
[ -s "$NVM_DIR/nvm.sh" ] && \. "$NVM_DIR/nvm.sh"`

// nodeSteps installs NVM for the target user and wires its init block into
// .bashrc. Node itself is installed through nvm on first login; settle only
// converges the bootstrap.
func nodeSteps(ctx *core.SystemContext, cfg *config.Config) []core.Step {
	home := ctx.TargetHome
	if home == "" {
		home = ctx.HomeDir
	}
	user := cfg.User.Name
	nvmScript := filepath.Join(home, ".nvm", "nvm.sh")
	bashrc := filepath.Join(home, ".bashrc")

	install := core.Step{
		Name:     "node:nvm",
		Resource: core.ResourceRef{Kind: "pkg", ID: "nvm"},
		Probe: func(ctx *core.SystemContext) core.ProbeState {
			if _, err := ctx.FS.Stat(nvmScript); err != nil {
				return core.StateUnsatisfied
			}
			return core.StateSatisfied
		},
		Action: func(ctx *core.SystemContext) error {
			if _, err := core.RunCommand(ctx, "curl", "-fsSL", nvmInstallURL, "-o", "/tmp/nvm-install.sh"); err != nil {
				return err
			}
			// Run the installer as the target user so .nvm lands in their home.
			_, err := core.RunCommand(ctx, "runuser", "-u", user, "--", "bash", "/tmp/nvm-install.sh")
			return err
		},
		Requires: []string{"curl", "bash", "runuser"},
		Class:    core.ClassNetwork,
		Remedy:   "install nvm manually from " + nvmInstallURL,
	}

	initRes := resource.Marker("nvm-init", bashrc, nvmMarker)
	initBlock := core.Step{
		Name:     "dotfile:nvm-init",
		Resource: initRes.Ref(),
		Probe:    initRes.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			return resource.EnsureBlock(ctx, bashrc, nvmMarker, nvmBlock)
		},
		BackupTargets: []string{bashrc},
		Class:         core.ClassLocal,
		Remedy:        "append the nvm init block to " + bashrc,
	}

	return []core.Step{install, initBlock}
}

func nodeChecks(ctx *core.SystemContext) verify.Check {
	home := ctx.TargetHome
	if home == "" {
		home = ctx.HomeDir
	}
	return verify.Check{
		Resource: resource.Marker("nvm-init", filepath.Join(home, ".bashrc"), nvmMarker),
	}
}
