package catalog

import (
	"fmt"

	"github.com/melih-ucgun/settle/internal/config"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/resource"
	"github.com/melih-ucgun/settle/internal/verify"
)

const dockerListPath = "/etc/apt/sources.list.d/docker.list"

// Key and list content for the Docker apt repository. The signed-by path is
// expected to be populated by the key step below.
const (
	dockerKeyringPath = "/etc/apt/keyrings/docker.asc"
	dockerKeyURL      = "https://download.docker.com/linux/debian/gpg"
)

var dockerPackages = []string{"docker-ce", "docker-ce-cli", "containerd.io"}

var desktopPackages = []string{"xfce4", "xfce4-terminal", "firefox-esr"}

// packageSteps yields one step per package so a single unreachable mirror
// only fails its own resource, and skips stay visible per package.
func packageSteps(names []string) []core.Step {
	steps := make([]core.Step, 0, len(names))
	for _, name := range names {
		steps = append(steps, packageStep(name, ""))
	}
	return steps
}

func packageStep(name, when string) core.Step {
	res := resource.Package(name)
	return core.Step{
		Name:     "pkg:" + name,
		Resource: res.Ref(),
		Probe:    res.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			return resource.InstallPackages(ctx, name)
		},
		When:     when,
		Requires: []string{"apt-get"},
		Class:    core.ClassNetwork,
		Remedy:   "run: apt-get install " + name,
	}
}

// dockerSteps: keyring, repository file, index refresh, engine packages,
// group membership, service. Order is load-bearing.
func dockerSteps(cfg *config.Config) []core.Step {
	steps := []core.Step{
		dockerKeyStep(),
		dockerRepoStep(),
	}

	for _, name := range dockerPackages {
		steps = append(steps, packageStep(name, ""))
	}

	steps = append(steps, groupMembershipStep(cfg.User.Name, "docker"))

	svc := resource.Service("docker")
	steps = append(steps, core.Step{
		Name:     "service:docker",
		Resource: svc.Ref(),
		Probe:    svc.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			return resource.EnableService(ctx, "docker")
		},
		Requires: []string{"systemctl"},
		Class:    core.ClassLocal,
		Remedy:   "run: systemctl enable --now docker",
	})

	return steps
}

func dockerKeyStep() core.Step {
	res := resource.Repository("docker-key", dockerKeyringPath)
	return core.Step{
		Name:     "repo:docker-key",
		Resource: res.Ref(),
		Probe:    res.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			if err := ctx.FS.MkdirAll("/etc/apt/keyrings", 0o755); err != nil {
				return err
			}
			_, err := core.RunCommand(ctx, "curl", "-fsSL", dockerKeyURL, "-o", dockerKeyringPath)
			return err
		},
		Requires: []string{"curl"},
		Class:    core.ClassNetwork,
		Remedy:   "download " + dockerKeyURL + " to " + dockerKeyringPath,
	}
}

// dockerRepoLine renders the apt source line. Docker publishes dists by
// codename (bookworm, noble), never by VERSION_ID.
func dockerRepoLine(ctx *core.SystemContext) (string, error) {
	if ctx.Codename == "" {
		return "", fmt.Errorf("host has no VERSION_CODENAME, cannot pick a Docker apt suite")
	}
	return core.ExecuteTemplate(
		"deb [arch=amd64 signed-by="+dockerKeyringPath+"] https://download.docker.com/linux/{{ .Distro }} {{ .Codename }} stable",
		ctx)
}

func dockerRepoStep() core.Step {
	res := resource.Repository("docker", dockerListPath)
	return core.Step{
		Name:     "repo:docker",
		Resource: res.Ref(),
		Probe:    res.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			line, err := dockerRepoLine(ctx)
			if err != nil {
				return err
			}
			if err := resource.WriteRepository(ctx, dockerListPath, line); err != nil {
				return err
			}
			return resource.UpdateAptIndex(ctx)
		},
		// The repo line only makes sense on Debian derivatives.
		When:          `distro == "debian" || distro == "ubuntu"`,
		Requires:      []string{"apt-get"},
		BackupTargets: []string{dockerListPath},
		Class:         core.ClassNetwork,
		Remedy:        "write the Docker apt source to " + dockerListPath + " and run apt-get update",
	}
}

func desktopSteps() []core.Step {
	steps := make([]core.Step, 0, len(desktopPackages))
	for _, name := range desktopPackages {
		step := packageStep(name, "")
		step.Optional = true
		steps = append(steps, step)
	}
	return steps
}

func packageChecks(names []string) []verify.Check {
	checks := make([]verify.Check, 0, len(names))
	for _, name := range names {
		checks = append(checks, verify.Check{Resource: resource.Package(name)})
	}
	return checks
}

// dockerChecks mirrors every resource the docker steps converge, keyring
// and group membership included.
func dockerChecks(cfg *config.Config) []verify.Check {
	checks := []verify.Check{
		{Resource: resource.Repository("docker-key", dockerKeyringPath)},
		{Resource: resource.Repository("docker", dockerListPath)},
	}
	for _, name := range dockerPackages {
		checks = append(checks, verify.Check{Resource: resource.Package(name)})
	}
	checks = append(checks,
		verify.Check{Resource: resource.GroupMember(cfg.User.Name, "docker")},
		verify.Check{Resource: resource.Service("docker")},
	)
	return checks
}

func desktopChecks() []verify.Check {
	checks := make([]verify.Check, 0, len(desktopPackages))
	for _, name := range desktopPackages {
		checks = append(checks, verify.Check{Resource: resource.Package(name), Optional: true})
	}
	return checks
}
