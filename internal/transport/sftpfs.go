package transport

import (
	"io"
	"io/fs"
	"os"

	"github.com/pkg/sftp"

	"github.com/melih-ucgun/settle/internal/core"
)

// SFTPFS implements core.FileSystem against a remote host. Probes, dotfile
// edits and backups all go through this when running with --host.
type SFTPFS struct {
	client *sftp.Client
}

var _ core.FileSystem = (*SFTPFS)(nil)

func (f *SFTPFS) Stat(name string) (fs.FileInfo, error) {
	return f.client.Stat(name)
}

func (f *SFTPFS) ReadFile(name string) ([]byte, error) {
	file, err := f.client.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (f *SFTPFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	file, err := f.client.Create(name)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return f.client.Chmod(name, perm)
}

func (f *SFTPFS) MkdirAll(path string, _ os.FileMode) error {
	return f.client.MkdirAll(path)
}

func (f *SFTPFS) Remove(name string) error {
	return f.client.Remove(name)
}

func (f *SFTPFS) Chmod(name string, mode os.FileMode) error {
	return f.client.Chmod(name, mode)
}

func (f *SFTPFS) Open(name string) (core.File, error) {
	return f.client.Open(name)
}

func (f *SFTPFS) Create(name string) (core.File, error) {
	return f.client.Create(name)
}
