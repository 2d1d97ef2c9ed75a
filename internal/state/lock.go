package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrLockHeld reports that another live settle process owns the lock. It is
// a fatal precondition: the second run must abort without touching anything.
var ErrLockHeld = errors.New("another run is already active")

// Lock is the process-wide mutual exclusion token: a file holding the PID of
// the active run. At most one run may converge a host at a time.
type Lock struct {
	Path string
	held bool
}

func NewLock(path string) *Lock {
	return &Lock{Path: path}
}

// Acquire takes the lock or fails fast. A lock file left by a dead process
// is reclaimed; a live holder aborts this run with its PID in the error so
// the operator knows what to look at.
func (l *Lock) Acquire() error {
	if data, err := os.ReadFile(l.Path); err == nil {
		pid, perr := strconv.Atoi(strings.TrimSpace(string(data)))
		if perr == nil && pidAlive(pid) {
			return fmt.Errorf("%w: pid %d holds %s", ErrLockHeld, pid, l.Path)
		}
		// Stale lock from a dead process: reclaim.
		_ = os.Remove(l.Path)
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s appeared during acquisition", ErrLockHeld, l.Path)
		}
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return err
	}
	l.held = true
	return nil
}

// Holder returns the PID recorded in the lock file, or 0 when unlocked.
func (l *Lock) Holder() int {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// Release deletes the lock file. Safe to call when the lock was never
// acquired; intended for a defer right after Acquire succeeds.
func (l *Lock) Release() {
	if l.held {
		_ = os.Remove(l.Path)
		l.held = false
	}
}

// pidAlive reports whether a process with the given pid exists. EPERM still
// means the process is there, just not ours to signal.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
