package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/settle/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullManifest(t *testing.T) {
	path := writeConfig(t, `
user:
  name: melih
  groups: [sudo]
  shell: /bin/zsh
hostname: devbox
packages:
  - curl
  - git
dotfiles:
  - id: aliases
    path: "{{ .TargetHome }}/.bashrc"
    marker: "# settle:aliases"
    block: "alias ll='ls -alF'"
components:
  docker: true
  node: true
state_dir: /tmp/settle-test
hosts:
  - name: lab
    address: 10.0.0.5
    user: root
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "melih", cfg.User.Name)
	assert.Equal(t, "/bin/zsh", cfg.User.Shell)
	assert.Equal(t, "devbox", cfg.Hostname)
	assert.Equal(t, []string{"curl", "git"}, cfg.Packages)
	assert.True(t, cfg.Components.Docker)
	assert.False(t, cfg.Components.Desktop)
	assert.True(t, cfg.Components.Node)
	require.Len(t, cfg.Dotfiles, 1)
	assert.Equal(t, "# settle:aliases", cfg.Dotfiles[0].Marker)
	assert.Equal(t, "/tmp/settle-test", cfg.StateDir)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "user:\n  name: melih\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/settle", cfg.StateDir)
	assert.Equal(t, "/bin/bash", cfg.User.Shell)
}

func TestLoad_StateDirEnvOverride(t *testing.T) {
	t.Setenv("SETTLE_STATE_DIR", "/tmp/override")

	cfg, err := config.Load(writeConfig(t, "user:\n  name: melih\nstate_dir: /var/lib/elsewhere\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override", cfg.StateDir)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing user name",
			content: "packages: [curl]\n",
			wantErr: "user.name is required",
		},
		{
			name:    "dotfile without marker",
			content: "user:\n  name: melih\ndotfiles:\n  - id: x\n    path: /tmp/x\n",
			wantErr: "dotfiles[0]",
		},
		{
			name:    "host without address",
			content: "user:\n  name: melih\nhosts:\n  - name: lab\n",
			wantErr: "hosts[0]",
		},
		{
			name:    "malformed yaml",
			content: "user: [unclosed\n",
			wantErr: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestStatePaths(t *testing.T) {
	cfg := &config.Config{StateDir: "/var/lib/settle"}

	assert.Equal(t, "/var/lib/settle/settle.lock", cfg.LockPath())
	assert.Equal(t, "/var/lib/settle/progress", cfg.LedgerPath())
	assert.Equal(t, "/var/lib/settle/backups", cfg.BackupRoot())
	assert.Equal(t, "/var/lib/settle/settle.log", cfg.LogPath())
}

func TestFindHost(t *testing.T) {
	cfg := &config.Config{Hosts: []config.Host{{Name: "lab", Address: "10.0.0.5"}}}

	h, err := cfg.FindHost("lab")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", h.Address)

	_, err = cfg.FindHost("ghost")
	assert.Error(t, err)
}
