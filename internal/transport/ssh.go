// Package transport provides the remote execution backends: an SSH-backed
// command runner and an SFTP-backed filesystem. Plugging both into the
// SystemContext makes the whole catalogue converge a remote Debian host with
// no other code change.
package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/melih-ucgun/settle/internal/config"
)

// SSHTransport owns the connection to one remote host.
type SSHTransport struct {
	client *ssh.Client
	sftpc  *sftp.Client
	host   config.Host
}

// Dial opens a verified SSH connection to the host. Host keys are checked
// against ~/.ssh/known_hosts; there is no insecure fallback, connect
// manually once if the key is not recorded yet.
func Dial(h config.Host) (*SSHTransport, error) {
	var authMethods []ssh.AuthMethod

	keyPath := h.KeyPath
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		keyPath = filepath.Join(home, ".ssh", "id_ed25519")
	}
	if keyData, err := os.ReadFile(keyPath); err == nil {
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("parse private key %s: %w", keyPath, err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no usable SSH key at %s", keyPath)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	knownHostsPath := filepath.Join(home, ".ssh", "known_hosts")
	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts (%s): %w; connect once with ssh to record the host key", knownHostsPath, err)
	}

	port := h.Port
	if port == 0 {
		port = 22
	}

	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", h.Address, port), &ssh.ClientConfig{
		User:            h.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", h.Address, err)
	}

	sftpc, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open sftp channel: %w", err)
	}

	return &SSHTransport{client: client, sftpc: sftpc, host: h}, nil
}

func (t *SSHTransport) Close() error {
	if t.sftpc != nil {
		t.sftpc.Close()
	}
	return t.client.Close()
}

// Runner returns the command runner bound to this connection.
func (t *SSHTransport) Runner() *SSHRunner {
	return &SSHRunner{transport: t}
}

// FS returns the SFTP-backed filesystem for this connection.
func (t *SSHTransport) FS() *SFTPFS {
	return &SFTPFS{client: t.sftpc}
}

// SSHRunner executes argument vectors on the remote host. The remote shell
// only ever sees single-quoted arguments, so nothing we pass gets
// re-interpreted.
type SSHRunner struct {
	transport *SSHTransport
}

func (r *SSHRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.run(ctx, name, args, true)
}

func (r *SSHRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.run(ctx, name, args, false)
}

func (r *SSHRunner) LookPath(name string) bool {
	session, err := r.transport.client.NewSession()
	if err != nil {
		return false
	}
	defer session.Close()
	return session.Run("command -v "+quoteArg(name)) == nil
}

func (r *SSHRunner) run(ctx context.Context, name string, args []string, combined bool) ([]byte, error) {
	session, err := r.transport.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	cmd := quoteCommand(name, args)

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		var out []byte
		var rerr error
		if combined {
			out, rerr = session.CombinedOutput(cmd)
		} else {
			out, rerr = session.Output(cmd)
		}
		done <- result{out, rerr}
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return nil, ctx.Err()
	case res := <-done:
		return res.out, res.err
	}
}

// quoteCommand renders an argv vector as a single-quoted command line.
func quoteCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(name))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
