package state

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/melih-ucgun/settle/internal/core"
)

// statDeniedFS simulates a traversal-denied directory: Stat fails with
// permission denied even though the file exists.
type statDeniedFS struct {
	core.FileSystem
	denied string
}

func (f *statDeniedFS) Stat(name string) (fs.FileInfo, error) {
	if name == f.denied {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}
	return f.FileSystem.Stat(name)
}

func TestBackupManager_Snapshot(t *testing.T) {
	tmpDir := t.TempDir()
	bm := NewBackupManager(&core.RealFS{}, filepath.Join(tmpDir, "backups"), "run-1")

	srcDir := filepath.Join(tmpDir, "etc")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(srcDir, "hostname")
	if err := os.WriteFile(src, []byte("old-name\n"), 0o640); err != nil {
		t.Fatal(err)
	}

	backupPath, err := bm.Snapshot(src)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	// Layout mirrors the absolute source path under root/runID.
	want := filepath.Join(tmpDir, "backups", "run-1", src)
	if backupPath != want {
		t.Errorf("backup path = %s, want %s", backupPath, want)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old-name\n" {
		t.Errorf("backup content = %q", string(data))
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("backup mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestBackupManager_FirstSnapshotWins(t *testing.T) {
	tmpDir := t.TempDir()
	bm := NewBackupManager(&core.RealFS{}, filepath.Join(tmpDir, "backups"), "run-1")

	src := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(src, []byte("pristine"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := bm.Snapshot(src)
	if err != nil {
		t.Fatal(err)
	}

	// Mutate the source and snapshot again within the same run: the
	// pristine copy must survive.
	if err := os.WriteFile(src, []byte("half-mutated"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := bm.Snapshot(src)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("expected same backup path, got %s and %s", first, second)
	}

	data, _ := os.ReadFile(first)
	if string(data) != "pristine" {
		t.Errorf("pristine backup was overwritten: %q", string(data))
	}
}

func TestBackupManager_SeparateRunsDoNotCollide(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "backups")

	src := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(src, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	run1, err := NewBackupManager(&core.RealFS{}, root, "run-1").Snapshot(src)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(src, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	run2, err := NewBackupManager(&core.RealFS{}, root, "run-2").Snapshot(src)
	if err != nil {
		t.Fatal(err)
	}

	if run1 == run2 {
		t.Fatal("runs must not share backup paths")
	}
	d1, _ := os.ReadFile(run1)
	d2, _ := os.ReadFile(run2)
	if string(d1) != "v1" || string(d2) != "v2" {
		t.Errorf("got %q and %q", string(d1), string(d2))
	}
}

func TestBackupManager_MissingSourceIsNoop(t *testing.T) {
	tmpDir := t.TempDir()
	bm := NewBackupManager(&core.RealFS{}, filepath.Join(tmpDir, "backups"), "run-1")

	path, err := bm.Snapshot(filepath.Join(tmpDir, "does-not-exist"))
	if err != nil {
		t.Fatalf("expected nil error for missing source, got %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path, got %s", path)
	}
}

func TestBackupManager_StatDeniedIsAnError(t *testing.T) {
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(src, []byte("protected"), 0o644); err != nil {
		t.Fatal(err)
	}

	fsys := &statDeniedFS{FileSystem: &core.RealFS{}, denied: src}
	bm := NewBackupManager(fsys, filepath.Join(tmpDir, "backups"), "run-1")

	// Only a confirmed-missing source is a no-op. A permission failure on an
	// existing target must surface, so the engine blocks the mutation.
	path, err := bm.Snapshot(src)
	if err == nil {
		t.Fatal("expected an error for a permission-denied stat")
	}
	if path != "" {
		t.Errorf("expected empty backup path, got %s", path)
	}
}

func TestBackupManager_Restore(t *testing.T) {
	tmpDir := t.TempDir()
	bm := NewBackupManager(&core.RealFS{}, filepath.Join(tmpDir, "backups"), "run-1")

	src := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(src, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	backupPath, err := bm.Snapshot(src)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(src, []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := bm.Restore(backupPath, src); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	data, _ := os.ReadFile(src)
	if string(data) != "original" {
		t.Errorf("restored content = %q", string(data))
	}
}
