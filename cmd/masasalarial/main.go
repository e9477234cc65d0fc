package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"masasalarial/internal/cache"
	"masasalarial/internal/cli"
	"masasalarial/internal/dataset"
	apphttp "masasalarial/internal/http"
	"masasalarial/internal/log"
	"masasalarial/internal/source/factory"
)

func main() {
	cfg, logger, schema := cli.Setup()

	reader, err := factory.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("Initialized data backend", log.FieldBackend, cfg.DataBackend)

	snapshots := cache.NewLRUCache[*dataset.Snapshot](cfg.SnapshotCacheSize, cfg.SnapshotCacheTTL)
	loader := dataset.NewLoader(reader, schema, cfg.AnnualHeaderRow, snapshots, logger)

	// Load once before serving. Failure is not fatal: readiness stays down
	// until a scheduled refresh or manual reload succeeds.
	startCtx, startCancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	if snap, err := loader.Load(startCtx); err != nil {
		logger.Error("Initial data load failed, waiting for a successful reload", "error", err)
	} else {
		logger.Info("Initial data load complete",
			log.FieldFingerprint, snap.Fingerprint,
			log.FieldRows, len(snap.Records))
	}
	startCancel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := dataset.NewRefresher(loader, cfg.RefreshInterval, logger)
	refresher.Start(ctx)
	defer refresher.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, loader, schema, logger)

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting masasalarial server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
