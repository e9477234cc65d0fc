// Package http serves the dashboard API. Every data endpoint reads the
// currently published snapshot, applies the request's dimension selection
// and returns chart-ready JSON; nothing here mutates the dataset except the
// explicit reload route.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"masasalarial/internal/cache"
	"masasalarial/internal/dataset"
	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
)

const (
	// Response cache bounds. Keys carry the snapshot fingerprint, so a
	// reload stops hitting stale entries on its own; the TTL is a backstop.
	responseCacheSize = 256
	responseCacheTTL  = 5 * time.Minute

	// Exports and reloads re-read or re-render the whole dataset, so they
	// get a much tighter budget than the cached chart endpoints.
	expensiveRouteLimit  = 10
	expensiveRouteWindow = time.Minute
)

// Server hosts the dashboard API on top of an embedded http.Server.
type Server struct {
	http.Server

	loader     *dataset.Loader
	schema     payroll.Schema
	logger     *log.Logger
	structured *log.StructuredLogger
	limiter    *rateLimiter

	responses    *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, middleware and the response cache, returning a
// server ready for ListenAndServe.
func NewServer(addr string, loader *dataset.Loader, schema payroll.Schema, logger *log.Logger) *Server {
	scoped := logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		loader:     loader,
		schema:     schema,
		logger:     scoped,
		structured: log.NewStructuredLogger(scoped),
		limiter:    newRateLimiter(expensiveRouteLimit, expensiveRouteWindow),
		responses:  cache.NewLRUCache[[]byte](responseCacheSize, responseCacheTTL),
	}

	s.cacheManager = cache.NewManager(logger)
	s.cacheManager.Register(s.responses)
	s.cacheManager.StartCleanup(10 * time.Minute)

	r := chi.NewRouter()
	r.Use(s.withRequestID)
	r.Use(log.Middleware(scoped))
	r.Use(s.withRequestLogging)
	r.Use(s.withSecurityHeaders)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dataset", s.handleDataset)
		r.Get("/kpis", s.handleKPIs)
		r.Get("/evolution/monthly", s.handleMonthlyEvolution)
		r.Get("/breakdown/departments", s.handleDepartmentBreakdown)
		r.Get("/breakdown/classifications", s.handleClassificationBreakdown)
		r.Get("/pivot/concepts", s.handleConceptPivot)
		r.Get("/crosstab/classifications", s.handleClassificationCrossTab)
		r.Get("/filters/options", s.handleFilterOptions)
		r.Get("/records", s.handleRecords)
		r.Get("/annual", s.handleAnnual)

		r.Group(func(r chi.Router) {
			r.Use(s.withRateLimit)
			r.Get("/export/csv", s.handleExportCSV)
			r.Get("/export/pdf", s.handleExportPDF)
			r.Post("/reload", s.handleReload)
		})
	})

	s.Handler = r
	return s
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "masasalarial",
		"api":     "/api/v1",
		"health":  "/healthz",
		"ready":   "/readyz",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready only once a snapshot is being served, so load
// balancers hold traffic until the first load lands.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.loader.Current() == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no snapshot loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the background loops and then the listener. Safe to call
// more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down HTTP server")
		s.limiter.stop()
		s.cacheManager.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
