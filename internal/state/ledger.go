package state

import (
	"os"
	"path/filepath"
	"strings"
)

// Ledger is the single-slot progress file: it holds the name of the step
// most recently attempted, nothing else. It is deliberately not an
// append-only log; its only job is to tell a human which step was in flight
// when a run died. The file is removed unconditionally at run end.
type Ledger struct {
	Path string
}

func NewLedger(path string) *Ledger {
	return &Ledger{Path: path}
}

// Record overwrites the slot with the given step name, creating the file
// (and its directory) on first use.
func (l *Ledger) Record(step string) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.Path, []byte(step+"\n"), 0o644)
}

// Read returns the last recorded step name, or ok=false when no run left a
// breadcrumb.
func (l *Ledger) Read() (string, bool) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return "", false
	}
	step := strings.TrimSpace(string(data))
	if step == "" {
		return "", false
	}
	return step, true
}

// Clear removes the ledger file. Called from a defer at run end, success or
// failure alike.
func (l *Ledger) Clear() {
	_ = os.Remove(l.Path)
}
