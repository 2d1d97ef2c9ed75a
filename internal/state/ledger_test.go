package state

import (
	"path/filepath"
	"testing"
)

func TestLedger_SingleSlot(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), "sub", "progress"))

	if _, ok := ledger.Read(); ok {
		t.Fatal("fresh ledger should be empty")
	}

	if err := ledger.Record("pkg:curl"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := ledger.Record("service:docker"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Only the last value survives; this is a breadcrumb, not a history.
	step, ok := ledger.Read()
	if !ok || step != "service:docker" {
		t.Errorf("Read = %q, %v", step, ok)
	}
}

func TestLedger_Clear(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), "progress"))

	if err := ledger.Record("pkg:curl"); err != nil {
		t.Fatal(err)
	}
	ledger.Clear()

	if _, ok := ledger.Read(); ok {
		t.Error("ledger should be empty after Clear")
	}

	// Clearing twice is harmless.
	ledger.Clear()
}
