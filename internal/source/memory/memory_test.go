package memory

import (
	"context"
	"testing"

	"masasalarial/internal/payroll"
)

func TestStoreTables(t *testing.T) {
	s := New()

	got, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}
	if got.Annual == nil {
		t.Error("seeded store must include the annual sheet")
	}
	if len(got.Fingerprint) != 64 {
		t.Errorf("fingerprint = %q, want 64 hex chars", got.Fingerprint)
	}

	again, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("second Tables() error = %v", err)
	}
	if again.Fingerprint != got.Fingerprint {
		t.Error("unchanged store produced a different fingerprint")
	}
}

func TestStoreSeedNormalizesCleanly(t *testing.T) {
	s := New()
	tables, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}

	records, diag, err := payroll.Normalize(tables.Detail, payroll.DefaultSchema())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) == 0 {
		t.Fatal("seed produced no records")
	}
	if diag.DroppedBadPeriod != 0 || diag.DroppedMissingDimension != 0 {
		t.Errorf("seed rows were dropped: %+v", diag)
	}

	if _, err := payroll.NormalizeControl(*tables.Annual, 3); err != nil {
		t.Errorf("NormalizeControl() error = %v", err)
	}
}

func TestStoreSetTablesChangesFingerprint(t *testing.T) {
	s := New()
	before, _ := s.Tables(context.Background())

	s.SetTables(payroll.Table{Name: "masa_salarial", Cells: [][]string{{"Período"}}}, nil)
	after, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}
	if after.Fingerprint == before.Fingerprint {
		t.Error("swapped content kept the old fingerprint")
	}
	if after.Annual != nil {
		t.Error("annual sheet should be gone after the swap")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New()
	first, _ := s.Tables(context.Background())
	first.Detail.Cells[0][0] = "mutated"

	second, _ := s.Tables(context.Background())
	if second.Detail.Cells[0][0] != "Período" {
		t.Error("caller mutation leaked into the store")
	}
}
