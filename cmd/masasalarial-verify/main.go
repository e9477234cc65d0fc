// Command masasalarial-verify loads the configured source once and reports
// what the dashboard would serve: row diagnostics, detected columns and the
// headline KPIs. Meant for checking a new workbook or schema override
// before pointing the server at it.
package main

import (
	"context"
	"fmt"
	"os"

	"masasalarial/internal/cache"
	"masasalarial/internal/cli"
	"masasalarial/internal/dataset"
	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
	"masasalarial/internal/source/factory"
)

func main() {
	cfg, logger, schema := cli.Setup()

	reader, err := factory.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	snapshots := cache.NewLRUCache[*dataset.Snapshot](1, cfg.SnapshotCacheTTL)
	loader := dataset.NewLoader(reader, schema, cfg.AnnualHeaderRow, snapshots, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	snap, err := loader.Load(ctx)
	if err != nil {
		logger.Error("Load failed", "error", err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	diag := snap.Diagnostics
	fmt.Printf("backend:             %s\n", cfg.DataBackend)
	fmt.Printf("fingerprint:         %s\n", snap.Fingerprint)
	fmt.Printf("source rows:         %d\n", diag.SourceRows)
	fmt.Printf("records kept:        %d\n", diag.Kept)
	fmt.Printf("dropped bad period:  %d\n", diag.DroppedBadPeriod)
	fmt.Printf("dropped missing dim: %d\n", diag.DroppedMissingDimension)
	fmt.Printf("columns (%d):\n", len(diag.Columns))
	for _, col := range diag.Columns {
		fmt.Printf("  - %s\n", col)
	}

	kpis := payroll.ComputeKPIs(snap.Records)
	fmt.Printf("total mass:          %.2f\n", kpis.TotalMass)
	fmt.Printf("latest month:        %s\n", kpis.LatestMonthName)
	fmt.Printf("latest headcount:    %.0f\n", kpis.Headcount)
	fmt.Printf("average cost:        %.2f\n", kpis.AverageCost)

	if snap.Annual != nil {
		fmt.Printf("annual sheet:        %d rows x %d columns\n", len(snap.Annual.Rows), len(snap.Annual.Columns))
	} else {
		fmt.Printf("annual sheet:        not present\n")
	}

	if diag.Kept == 0 {
		logger.Warn("Source loaded but produced no usable records")
		os.Exit(1)
	}
}
