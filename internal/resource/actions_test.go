package resource_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/resource"
)

func TestEnsureBlock_CreatesMissingFile(t *testing.T) {
	ctx := probeContext(nil)
	path := filepath.Join(t.TempDir(), ".bashrc")

	err := resource.EnsureBlock(ctx, path, "# settle:aliases", "alias ll='ls -alF'")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# settle:aliases\nalias ll='ls -alF'\n", string(data))
}

func TestEnsureBlock_AppendsToExistingContent(t *testing.T) {
	ctx := probeContext(nil)
	path := filepath.Join(t.TempDir(), ".bashrc")
	require.NoError(t, os.WriteFile(path, []byte("export EDITOR=vim"), 0o644))

	err := resource.EnsureBlock(ctx, path, "# settle:aliases", "alias ll='ls -alF'\n")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Existing content keeps its place and gains a trailing newline before
	// the block lands.
	assert.Equal(t, "export EDITOR=vim\n# settle:aliases\nalias ll='ls -alF'\n", string(data))
}

func TestEnsureBlock_ProbeSatisfiedAfterWrite(t *testing.T) {
	ctx := probeContext(nil)
	path := filepath.Join(t.TempDir(), ".profile")
	res := resource.Marker("path", path, "# settle:path")

	require.Equal(t, core.StateUnsatisfied, res.Probe(ctx))
	require.NoError(t, resource.EnsureBlock(ctx, path, "# settle:path", `export PATH="$HOME/bin:$PATH"`))
	assert.Equal(t, core.StateSatisfied, res.Probe(ctx))
}

func TestWriteRepository_ProbeSatisfiedAfterWrite(t *testing.T) {
	ctx := probeContext(nil)
	path := filepath.Join(t.TempDir(), "docker.list")
	res := resource.Repository("docker", path)

	require.NoError(t, resource.WriteRepository(ctx, path, "deb https://example.org stable main"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"), "repository file must end with a newline")
	assert.Equal(t, core.StateSatisfied, res.Probe(ctx))
}

func TestCreateUser_NewAccountUsesUseradd(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"useradd -m -s /bin/bash -G docker,sudo melih": "",
	}}
	ctx := probeContext(runner)

	err := resource.CreateUser(ctx, "melih", "/bin/bash", []string{"docker", "sudo"})
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "getent passwd melih", runner.calls[0])
	assert.Equal(t, "useradd -m -s /bin/bash -G docker,sudo melih", runner.calls[1])
}

func TestCreateUser_ExistingAccountUsesUsermod(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"getent passwd melih":                  "melih:x:1000:1000::/home/melih:/bin/bash",
		"usermod -aG docker -s /bin/zsh melih": "",
	}}
	ctx := probeContext(runner)

	err := resource.CreateUser(ctx, "melih", "/bin/zsh", []string{"docker"})
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "usermod -aG docker -s /bin/zsh melih", runner.calls[1])
}

func TestEnableService_EnableThenStart(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"systemctl enable docker": "",
		"systemctl start docker":  "",
	}}
	ctx := probeContext(runner)

	require.NoError(t, resource.EnableService(ctx, "docker"))
	assert.Equal(t, []string{"systemctl enable docker", "systemctl start docker"}, runner.calls)
}

func TestInstallPackages_ErrorCarriesFirstOutputLine(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{}}
	ctx := probeContext(runner)

	err := resource.InstallPackages(ctx, "no-such-pkg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apt-get install no-such-pkg")
}
