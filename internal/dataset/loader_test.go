package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"masasalarial/internal/cache"
	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
	"masasalarial/internal/source"
)

type fakeReader struct {
	mu     sync.Mutex
	calls  int
	tables source.Tables
	err    error
}

func (f *fakeReader) Tables(context.Context) (source.Tables, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return source.Tables{}, f.err
	}
	return f.tables, nil
}

func (f *fakeReader) set(tables source.Tables, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = tables
	f.err = err
}

func (f *fakeReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func fixtureTables(fingerprint string) source.Tables {
	return source.Tables{
		Detail: payroll.Table{
			Name: "masa_salarial",
			Cells: [][]string{
				{"Período", "Gerencia", "Nivel", "Clasificación Ministerio de Hacienda", "Relación", "Dotación", "Total Mensual"},
				{"2025-01-31", "Ventas", "Profesional", "Planta", "Permanente", "1", "1000"},
				{"2025-02-28", "Ventas", "Profesional", "Planta", "Permanente", "1", "1100"},
			},
		},
		Annual: &payroll.Table{
			Name: "Evolución Anual",
			Cells: [][]string{
				{"", "Planta"},
				{"Enero", "1000"},
				{"Febrero", "1100"},
			},
		},
		Fingerprint: fingerprint,
	}
}

func newTestLoader(reader source.Reader, annualHeaderRow int) *Loader {
	snapshots := cache.NewLRUCache[*Snapshot](4, time.Hour)
	return NewLoader(reader, payroll.DefaultSchema(), annualHeaderRow, snapshots, testLogger())
}

func TestLoaderLoad(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 0)

	if loader.Current() != nil {
		t.Fatal("Current() before first load should be nil")
	}

	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Records) != 2 {
		t.Errorf("records = %d, want 2", len(snap.Records))
	}
	if snap.Fingerprint != "fp-1" {
		t.Errorf("fingerprint = %q", snap.Fingerprint)
	}
	if snap.Annual == nil {
		t.Error("annual pivot missing")
	}
	if snap.LoadedAt.IsZero() {
		t.Error("LoadedAt not set")
	}
	if snap.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("snapshot ID not assigned")
	}
	if loader.Current() != snap {
		t.Error("Current() does not serve the loaded snapshot")
	}
}

func TestLoaderMemoizesByFingerprint(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 0)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if second != first {
		t.Error("unchanged fingerprint must reuse the cached snapshot")
	}
	if got := reader.callCount(); got != 2 {
		t.Errorf("source reads = %d, want 2 (fetch always runs, normalization does not)", got)
	}
}

func TestLoaderDetectsChangedContent(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 0)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	changed := fixtureTables("fp-2")
	changed.Detail.Cells = append(changed.Detail.Cells,
		[]string{"2025-03-31", "Ventas", "Profesional", "Planta", "Permanente", "1", "1200"})
	reader.set(changed, nil)

	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() after change error = %v", err)
	}
	if second.ID == first.ID {
		t.Error("changed content must produce a new snapshot")
	}
	if len(second.Records) != 3 {
		t.Errorf("records = %d, want 3", len(second.Records))
	}
	if loader.Current() != second {
		t.Error("Current() not swapped to the new snapshot")
	}
}

func TestLoaderFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 0)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	reader.set(source.Tables{}, errors.New("source offline"))
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("Load() with failing source: want error")
	}
	if loader.Current() != first {
		t.Error("failed load must keep the previous snapshot")
	}
}

func TestLoaderSchemaErrorPropagates(t *testing.T) {
	tables := fixtureTables("fp-1")
	tables.Detail.Cells[0][0] = "Fecha"
	reader := &fakeReader{tables: tables}
	loader := newTestLoader(reader, 0)

	_, err := loader.Load(context.Background())
	var schemaErr *payroll.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *payroll.SchemaError", err)
	}
	if loader.Current() != nil {
		t.Error("no snapshot should be served after a schema failure")
	}
}

func TestLoaderRejectedAnnualKeepsRecords(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 40) // header row far past the sheet

	snap, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Annual != nil {
		t.Error("rejected annual sheet must leave Annual nil")
	}
	if len(snap.Records) != 2 {
		t.Errorf("records = %d, detail load must be unaffected", len(snap.Records))
	}
}

func TestRefresherLoadsOnInterval(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 0)

	refresher := NewRefresher(loader, 20*time.Millisecond, testLogger())
	refresher.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	refresher.Stop()

	after := reader.callCount()
	if after < 1 {
		t.Fatalf("source reads = %d, want at least one scheduled load", after)
	}
	if loader.Current() == nil {
		t.Error("refresher never published a snapshot")
	}

	time.Sleep(50 * time.Millisecond)
	if got := reader.callCount(); got != after {
		t.Errorf("source reads after Stop() = %d, want %d", got, after)
	}
}

func TestRefresherDisabledInterval(t *testing.T) {
	reader := &fakeReader{tables: fixtureTables("fp-1")}
	loader := newTestLoader(reader, 0)

	refresher := NewRefresher(loader, 0, testLogger())
	refresher.Start(context.Background())
	refresher.Stop()

	if got := reader.callCount(); got != 0 {
		t.Errorf("source reads = %d, want 0 with refresh disabled", got)
	}
}
