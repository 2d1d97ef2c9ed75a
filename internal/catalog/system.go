package catalog

import (
	"strings"

	"github.com/melih-ucgun/settle/internal/config"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/resource"
	"github.com/melih-ucgun/settle/internal/verify"
)

// userStep creates the workstation account. Group membership that depends
// on later steps (docker) is handled by its own step after the package
// lands, so useradd never references a group that does not exist yet.
func userStep(cfg *config.Config) core.Step {
	res := resource.User(cfg.User.Name)
	name := cfg.User.Name
	shell := cfg.User.Shell
	groups := cfg.User.Groups

	return core.Step{
		Name:     "user:" + name,
		Resource: res.Ref(),
		Probe:    res.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			return resource.CreateUser(ctx, name, shell, groups)
		},
		Requires: []string{"useradd"},
		Class:    core.ClassLocal,
		Remedy:   "create the account manually with useradd -m " + name,
	}
}

// hostnameStep converges /etc/hostname via hostnamectl. The probe reads the
// file directly so it stays total even on hosts without hostnamectl.
func hostnameStep(desired string) core.Step {
	return core.Step{
		Name:     "hostname:" + desired,
		Resource: core.ResourceRef{Kind: "hostname", ID: desired},
		Probe: func(ctx *core.SystemContext) core.ProbeState {
			data, err := ctx.FS.ReadFile("/etc/hostname")
			if err != nil {
				return core.StateUnsatisfied
			}
			if strings.TrimSpace(string(data)) == desired {
				return core.StateSatisfied
			}
			return core.StateUnsatisfied
		},
		Action: func(ctx *core.SystemContext) error {
			return resource.SetHostname(ctx, desired)
		},
		Requires:      []string{"hostnamectl"},
		BackupTargets: []string{"/etc/hostname"},
		Class:         core.ClassLocal,
		Remedy:        "run: hostnamectl set-hostname " + desired,
	}
}

// groupMembershipStep appends the user to a group that exists only after a
// package install (docker). The probe shells out to id, which reflects the
// groups file immediately.
func groupMembershipStep(user, group string) core.Step {
	res := resource.GroupMember(user, group)
	return core.Step{
		Name:     "group:" + user + ":" + group,
		Resource: res.Ref(),
		Probe:    res.AsProbe(),
		Action: func(ctx *core.SystemContext) error {
			_, err := core.RunCommand(ctx, "usermod", "-aG", group, user)
			return err
		},
		Requires: []string{"usermod"},
		Class:    core.ClassLocal,
		Remedy:   "run: usermod -aG " + group + " " + user,
	}
}

func userChecks(cfg *config.Config) []verify.Check {
	return []verify.Check{
		{Resource: resource.User(cfg.User.Name)},
	}
}
