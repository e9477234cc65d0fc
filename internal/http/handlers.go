package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"masasalarial/internal/dataset"
	"masasalarial/internal/export"
	"masasalarial/internal/log"
	"masasalarial/internal/payroll"
)

// Wire payloads. The payroll types carry their own JSON tags; these structs
// only add the request echo (applied filters) and metadata around them.
type (
	datasetPayload struct {
		ID            uuid.UUID           `json:"id"`
		Fingerprint   string              `json:"fingerprint"`
		LoadedAt      time.Time           `json:"loaded_at"`
		Records       int                 `json:"records"`
		AnnualPresent bool                `json:"annual_present"`
		Diagnostics   payroll.Diagnostics `json:"diagnostics"`
	}

	kpisPayload struct {
		payroll.KPIs
		Applied payroll.Selection `json:"applied_filters"`
	}

	seriesPayload struct {
		Rows    []payroll.AggregateRow `json:"rows"`
		Applied payroll.Selection      `json:"applied_filters"`
	}

	sharesPayload struct {
		Rows    []payroll.ShareRow `json:"rows"`
		Applied payroll.Selection  `json:"applied_filters"`
	}

	pivotPayload struct {
		payroll.Pivot
		Applied payroll.Selection `json:"applied_filters"`
	}

	optionsPayload struct {
		Options map[string][]string `json:"options"`
		Applied payroll.Selection   `json:"applied_filters"`
	}

	recordsPayload struct {
		Total   int               `json:"total_records"`
		Limit   int               `json:"limit"`
		Offset  int               `json:"offset"`
		Rows    []recordRow       `json:"rows"`
		Applied payroll.Selection `json:"applied_filters"`
	}

	// recordRow is the preview shape of a payroll.Record.
	recordRow struct {
		Period         string             `json:"period"`
		Month          int                `json:"month"`
		MonthName      string             `json:"month_name"`
		Department     string             `json:"department"`
		Level          string             `json:"level"`
		Classification string             `json:"classification"`
		Relationship   string             `json:"relationship"`
		EmployeeID     string             `json:"employee_id"`
		Headcount      float64            `json:"headcount"`
		Total          float64            `json:"total"`
		Concepts       map[string]float64 `json:"concepts,omitempty"`
	}

	annualPayload struct {
		payroll.Pivot
		Fingerprint string `json:"fingerprint"`
	}
)

// currentSnapshot fetches the served snapshot or answers 503 when nothing
// has loaded yet.
func (s *Server) currentSnapshot(w http.ResponseWriter, r *http.Request) (*dataset.Snapshot, bool) {
	snap := s.loader.Current()
	if snap == nil {
		writeError(w, r, http.StatusServiceUnavailable, log.ErrorTypeSource, "no dataset loaded yet")
		return nil, false
	}
	return snap, true
}

func cacheKey(endpoint string, snap *dataset.Snapshot, sel payroll.Selection, extra string) string {
	return endpoint + "|" + snap.Fingerprint + "|" + selectionKey(sel) + "|" + extra
}

// serveCached answers from the response cache when possible, otherwise
// builds the payload, stores its encoding and sends it.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, build func() any) {
	if payload, ok := s.responses.Get(key); ok {
		writeJSONBytes(w, payload)
		return
	}

	payload, err := json.Marshal(build())
	if err != nil {
		s.structured.LogError(r.Context(), "encode response", err, log.ComponentHTTP, log.OpDecode,
			log.NewFields().WithRequestID(requestIDFromContext(r.Context())))
		writeError(w, r, http.StatusInternalServerError, log.ErrorTypeInternal, "failed to encode response")
		return
	}
	s.responses.Set(key, payload)
	writeJSONBytes(w, payload)
}

func datasetFromSnapshot(snap *dataset.Snapshot) datasetPayload {
	return datasetPayload{
		ID:            snap.ID,
		Fingerprint:   snap.Fingerprint,
		LoadedAt:      snap.LoadedAt,
		Records:       len(snap.Records),
		AnnualPresent: snap.Annual != nil,
		Diagnostics:   snap.Diagnostics,
	}
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, datasetFromSnapshot(snap))
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("kpis", snap, sel, ""), func() any {
		return kpisPayload{KPIs: payroll.ComputeKPIs(payroll.Apply(snap.Records, sel)), Applied: sel}
	})
}

func (s *Server) handleMonthlyEvolution(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("evolution", snap, sel, ""), func() any {
		return seriesPayload{Rows: payroll.MonthlyTotals(payroll.Apply(snap.Records, sel)), Applied: sel}
	})
}

func (s *Server) handleDepartmentBreakdown(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("departments", snap, sel, ""), func() any {
		return seriesPayload{Rows: payroll.DepartmentTotals(payroll.Apply(snap.Records, sel)), Applied: sel}
	})
}

func (s *Server) handleClassificationBreakdown(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("classifications", snap, sel, ""), func() any {
		return sharesPayload{Rows: payroll.ClassificationShares(payroll.Apply(snap.Records, sel)), Applied: sel}
	})
}

func (s *Server) handleConceptPivot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("concepts", snap, sel, ""), func() any {
		pivot := payroll.ConceptPivot(payroll.Apply(snap.Records, sel), s.schema.ConceptColumns)
		return pivotPayload{Pivot: pivot, Applied: sel}
	})
}

func (s *Server) handleClassificationCrossTab(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("crosstab", snap, sel, ""), func() any {
		return pivotPayload{Pivot: payroll.ClassificationCrossTab(payroll.Apply(snap.Records, sel)), Applied: sel}
	})
}

// handleFilterOptions computes each dimension's choices from the records
// matching the other dimensions, so selected values never erase their own
// alternatives.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	s.serveCached(w, r, cacheKey("options", snap, sel, ""), func() any {
		return optionsPayload{Options: payroll.AllOptions(snap.Records, sel), Applied: sel}
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	sel := parseSelection(query)
	page := parsePreviewPage(query)

	s.serveCached(w, r, cacheKey("records", snap, sel, page.String()), func() any {
		filtered := payroll.Apply(snap.Records, sel)

		offset := page.Offset
		if offset > len(filtered) {
			offset = len(filtered)
		}
		end := offset + page.Limit
		if end > len(filtered) {
			end = len(filtered)
		}

		rows := make([]recordRow, 0, end-offset)
		for _, rec := range filtered[offset:end] {
			rows = append(rows, recordRow{
				Period:         rec.Period.Format("2006-01"),
				Month:          rec.Month,
				MonthName:      rec.MonthName,
				Department:     rec.Department,
				Level:          rec.Level,
				Classification: rec.Classification,
				Relationship:   rec.Relationship,
				EmployeeID:     rec.EmployeeID,
				Headcount:      rec.Headcount,
				Total:          rec.Total,
				Concepts:       rec.Concepts,
			})
		}
		return recordsPayload{
			Total:   len(filtered),
			Limit:   page.Limit,
			Offset:  offset,
			Rows:    rows,
			Applied: sel,
		}
	})
}

// handleAnnual serves the control sheet pivot as loaded, without filtering;
// it reflects the workbook's own yearly summary.
func (s *Server) handleAnnual(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	if snap.Annual == nil {
		writeError(w, r, http.StatusNotFound, log.ErrorTypeNotFound, "annual control sheet not present in the source")
		return
	}
	writeJSON(w, http.StatusOK, annualPayload{Pivot: *snap.Annual, Fingerprint: snap.Fingerprint})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	records := payroll.Apply(snap.Records, sel)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="masa_salarial_filtrada.csv"`)
	if err := export.WriteCSV(w, records, s.schema); err != nil {
		// Headers are out; all we can do is log.
		s.structured.LogError(r.Context(), "stream CSV export", err, log.ComponentExport, log.OpExport,
			log.NewFields().WithRequestID(requestIDFromContext(r.Context())))
	}
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	records := payroll.Apply(snap.Records, sel)

	report := export.Report{
		GeneratedAt: time.Now().UTC(),
		Fingerprint: snap.Fingerprint,
		Filters:     sel,
		KPIs:        payroll.ComputeKPIs(records),
		Monthly:     payroll.MonthlyTotals(records),
		Departments: payroll.DepartmentTotals(records),
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="masa_salarial_resumen.pdf"`)
	if err := export.WritePDF(w, report); err != nil {
		s.structured.LogError(r.Context(), "stream PDF export", err, log.ComponentExport, log.OpExport,
			log.NewFields().WithRequestID(requestIDFromContext(r.Context())))
	}
}

// handleReload fetches and normalizes the source now. A workbook missing
// its period column is the caller's data problem (422); an unreachable
// source is an upstream one (502). Either way the previous snapshot stays.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).InfoContext(r.Context(), "manual reload requested",
		log.FieldClientIP, extractClientIP(r),
		log.FieldRequestID, requestIDFromContext(r.Context()))

	snap, err := s.loader.Load(r.Context())
	if err != nil {
		var schemaErr *payroll.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, r, http.StatusUnprocessableEntity, log.ErrorTypeSchema, schemaErr.Error())
			return
		}
		writeError(w, r, http.StatusBadGateway, log.ErrorTypeSource, "reload failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, datasetFromSnapshot(snap))
}
