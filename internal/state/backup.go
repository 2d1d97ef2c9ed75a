package state

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/melih-ucgun/settle/internal/core"
)

// BackupManager copies mutable targets into a backup root before a step
// changes them. The layout is <root>/<runID>/<mirrored absolute path>, so
// files with the same basename in different directories never collide and an
// operator can map a backup back to its origin by eye.
//
// Backups are additive across runs and never deleted by settle; rollback is
// a manual operator decision.
type BackupManager struct {
	Root  string
	RunID string
	FS    core.FileSystem
}

func NewBackupManager(fs core.FileSystem, root, runID string) *BackupManager {
	return &BackupManager{
		Root:  root,
		RunID: runID,
		FS:    fs,
	}
}

var _ core.BackupGuard = (*BackupManager)(nil)

// Snapshot copies sourcePath into the run's backup directory, preserving the
// file mode. A missing source is a no-op success: there is nothing to
// protect. Within one run the first snapshot of a target wins; later calls
// return the existing copy so a step retrying an edit cannot clobber the
// pristine version with a half-mutated one.
func (bm *BackupManager) Snapshot(sourcePath string) (string, error) {
	info, err := bm.FS.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil // nothing to back up
		}
		// Any other failure (permission denied, transport error) must block
		// the mutation: the target may exist and would change unprotected.
		return "", fmt.Errorf("stat %s: %w", sourcePath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("backup source %q is a directory, not supported", sourcePath)
	}

	abs := sourcePath
	if !filepath.IsAbs(abs) {
		abs = "/" + abs
	}
	backupPath := filepath.Join(bm.Root, bm.RunID, abs)

	if _, err := bm.FS.Stat(backupPath); err == nil {
		return backupPath, nil // first snapshot of this run wins
	}

	if err := bm.FS.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	if err := core.CopyFile(bm.FS, sourcePath, backupPath, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("copy %s: %w", sourcePath, err)
	}

	return backupPath, nil
}

// Restore copies a backup back over its target. Used by the operator-driven
// rollback path, never automatically.
func (bm *BackupManager) Restore(backupPath, targetPath string) error {
	info, err := bm.FS.Stat(backupPath)
	if err != nil {
		return fmt.Errorf("backup not found at %s: %w", backupPath, err)
	}

	if err := bm.FS.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return err
	}

	return core.CopyFile(bm.FS, backupPath, targetPath, info.Mode().Perm())
}
