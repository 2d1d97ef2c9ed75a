// Package config loads the run manifest: which user, hostname, packages,
// dotfile blocks and optional components the run should converge. The
// manifest is read once at startup and never changes during a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserSpec describes the workstation account to create and configure.
type UserSpec struct {
	Name   string   `yaml:"name"`
	Groups []string `yaml:"groups"`
	Shell  string   `yaml:"shell"`
}

// Dotfile is a marker-guarded block inside a text file. Block content is
// rendered as a template against the SystemContext before insertion.
type Dotfile struct {
	ID     string `yaml:"id"`
	Path   string `yaml:"path"`
	Marker string `yaml:"marker"`
	Block  string `yaml:"block"`
}

// Components toggles the optional parts of the catalogue.
type Components struct {
	Docker  bool `yaml:"docker"`
	Desktop bool `yaml:"desktop"`
	Node    bool `yaml:"node"`
}

// Host is a remote target for `--host` runs.
type Host struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	User    string `yaml:"user"`
	Port    int    `yaml:"port"`
	KeyPath string `yaml:"key_path"`
}

// Config is the full manifest.
type Config struct {
	User       UserSpec   `yaml:"user"`
	Hostname   string     `yaml:"hostname"`
	Packages   []string   `yaml:"packages"`
	Dotfiles   []Dotfile  `yaml:"dotfiles"`
	Components Components `yaml:"components"`
	StateDir   string     `yaml:"state_dir"`
	Hosts      []Host     `yaml:"hosts"`
}

// Load reads and validates the manifest. SETTLE_STATE_DIR overrides the
// state directory, mostly for tests and packaging.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if env := os.Getenv("SETTLE_STATE_DIR"); env != "" {
		cfg.StateDir = env
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "/var/lib/settle"
	}
	if cfg.User.Shell == "" {
		cfg.User.Shell = "/bin/bash"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the mandatory inputs. A broken manifest is a fatal
// precondition, caught before any step runs.
func (c *Config) Validate() error {
	if c.User.Name == "" {
		return fmt.Errorf("user.name is required")
	}
	for i, d := range c.Dotfiles {
		if d.Path == "" || d.Marker == "" {
			return fmt.Errorf("dotfiles[%d]: path and marker are required", i)
		}
	}
	for i, h := range c.Hosts {
		if h.Name == "" || h.Address == "" {
			return fmt.Errorf("hosts[%d]: name and address are required", i)
		}
	}
	return nil
}

// FindHost returns the named remote target.
func (c *Config) FindHost(name string) (Host, error) {
	for _, h := range c.Hosts {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, fmt.Errorf("host %q not defined in config", name)
}

// LockPath, LedgerPath, BackupRoot and LogPath are the operator-visible
// files under the state directory.
func (c *Config) LockPath() string   { return filepath.Join(c.StateDir, "settle.lock") }
func (c *Config) LedgerPath() string { return filepath.Join(c.StateDir, "progress") }
func (c *Config) BackupRoot() string { return filepath.Join(c.StateDir, "backups") }
func (c *Config) LogPath() string    { return filepath.Join(c.StateDir, "settle.log") }
