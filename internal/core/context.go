package core

import (
	"context"
	"os"
)

// SystemContext holds the runtime context of a single run. It wraps the
// standard Go context and carries everything a probe or action needs to talk
// to the target host: logger, command runner and filesystem. Swapping Runner
// and FS is how the same step catalogue converges a remote host.
type SystemContext struct {
	context.Context

	// Host facts, filled by the detector at startup.
	OS       string // runtime.GOOS or remote uname
	Distro   string // debian, ubuntu
	Version  string // 12, 24.04
	Codename string // bookworm, noble
	Hostname string

	// Current operator.
	User    string
	HomeDir string

	// Target account of the provisioning run (the user being created and
	// configured). May differ from User when running as root.
	TargetUser string
	TargetHome string

	// DryRun: probes run, mutations are only logged.
	DryRun bool

	Logger Logger
	UI     UI
	Runner Runner
	FS     FileSystem
}

// NewSystemContext builds a context bound to the local host.
func NewSystemContext(parent context.Context, dryRun bool) *SystemContext {
	if parent == nil {
		parent = context.Background()
	}
	return &SystemContext{
		Context: parent,
		OS:      "unknown",
		Distro:  "unknown",
		User:    os.Getenv("USER"),
		HomeDir: os.Getenv("HOME"),
		DryRun:  dryRun,
		Logger:  NewDefaultLogger(os.Stderr, LevelInfo),
		UI:      &NoopUI{},
		Runner:  &RealRunner{},
		FS:      &RealFS{},
	}
}
