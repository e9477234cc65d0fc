// Package dataset owns the snapshot lifecycle: fetching grids from the
// configured source, normalizing them, memoizing results by content
// fingerprint, and swapping the served snapshot atomically.
package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"masasalarial/internal/cache"
	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
	"masasalarial/internal/source"
)

// Snapshot is one fully normalized dataset. Snapshots are immutable once
// published; consumers must not mutate Records.
type Snapshot struct {
	ID          uuid.UUID
	Fingerprint string
	Records     []payroll.Record
	Diagnostics payroll.Diagnostics
	Annual      *payroll.Pivot
	LoadedAt    time.Time
}

// Loader fetches, normalizes and serves snapshots. A load whose fingerprint
// is already cached skips normalization; concurrent loads collapse into a
// single source read.
type Loader struct {
	reader          source.Reader
	schema          payroll.Schema
	annualHeaderRow int
	snapshots       cache.Cache[*Snapshot]
	logger          *log.Logger
	structured      *log.StructuredLogger

	group   singleflight.Group
	mu      sync.RWMutex
	current *Snapshot
}

// NewLoader wires a loader. The snapshot cache may be registered with a
// cache.Manager for expiry cleanup alongside the HTTP response caches.
func NewLoader(reader source.Reader, schema payroll.Schema, annualHeaderRow int, snapshots cache.Cache[*Snapshot], logger *log.Logger) *Loader {
	scoped := logger.WithComponent(log.ComponentLoader)
	return &Loader{
		reader:          reader,
		schema:          schema,
		annualHeaderRow: annualHeaderRow,
		snapshots:       snapshots,
		logger:          scoped,
		structured:      log.NewStructuredLogger(scoped),
	}
}

// Current returns the served snapshot, nil before the first successful Load.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Load fetches the source and publishes a snapshot. A failed load returns
// the error and leaves the previously served snapshot untouched.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	v, err, _ := l.group.Do("load", func() (any, error) {
		return l.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	tables, err := l.reader.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}

	if snap, ok := l.snapshots.Get(tables.Fingerprint); ok {
		l.logger.DebugContext(ctx, "source unchanged, reusing snapshot",
			log.FieldFingerprint, tables.Fingerprint)
		l.publish(snap)
		return snap, nil
	}

	records, diag, err := payroll.Normalize(tables.Detail, l.schema)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", tables.Detail.Name, err)
	}

	var annual *payroll.Pivot
	if tables.Annual != nil {
		pivot, cerr := payroll.NormalizeControl(*tables.Annual, l.annualHeaderRow)
		if cerr != nil {
			l.logger.WarnContext(ctx, "annual sheet rejected, continuing without it",
				log.FieldSheet, tables.Annual.Name, log.FieldError, cerr.Error())
		} else {
			annual = pivot
		}
	}

	snap := &Snapshot{
		ID:          uuid.New(),
		Fingerprint: tables.Fingerprint,
		Records:     records,
		Diagnostics: diag,
		Annual:      annual,
		LoadedAt:    time.Now().UTC(),
	}
	l.snapshots.Set(snap.Fingerprint, snap)
	l.publish(snap)
	l.structured.LogSnapshotLoaded(ctx, snap.Fingerprint, diag.SourceRows, diag.Kept)
	return snap, nil
}

func (l *Loader) publish(snap *Snapshot) {
	l.mu.Lock()
	l.current = snap
	l.mu.Unlock()
}
