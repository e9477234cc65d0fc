// Package memory is the in-process backend used for development and tests.
// It seeds a small but realistic workbook so the dashboard renders without
// any external source configured.
package memory

import (
	"context"
	"sync"

	"masasalarial/internal/payroll"
	"masasalarial/internal/source"
)

type Store struct {
	mu     sync.RWMutex
	detail payroll.Table
	annual *payroll.Table
}

var _ source.Reader = (*Store)(nil)

// New returns a store seeded with three months of data across three
// departments, including the annual control sheet.
func New() *Store {
	return &Store{detail: seedDetail(), annual: seedAnnual()}
}

func (s *Store) Tables(_ context.Context) (source.Tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detail := copyTable(s.detail)
	var annual *payroll.Table
	if s.annual != nil {
		t := copyTable(*s.annual)
		annual = &t
	}
	return source.Tables{
		Detail:      detail,
		Annual:      annual,
		Fingerprint: source.FingerprintTables(&detail, annual),
	}, nil
}

// SetTables swaps the grids. Later reads see the new content under a new
// fingerprint, which makes the store double as a change-simulation fixture.
func (s *Store) SetTables(detail payroll.Table, annual *payroll.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = detail
	s.annual = annual
}

func copyTable(t payroll.Table) payroll.Table {
	cells := make([][]string, len(t.Cells))
	for i, row := range t.Cells {
		cells[i] = append([]string(nil), row...)
	}
	return payroll.Table{Name: t.Name, Cells: cells}
}

func seedDetail() payroll.Table {
	return payroll.Table{
		Name: "masa_salarial",
		Cells: [][]string{
			{"Período", "Gerencia", "Nivel", "Clasificación Ministerio de Hacienda", "Relación", "Nro. de Legajo", "Dotación", "Horas Extras", "Vacaciones", "Total Mensual"},
			{"2025-01-31", "Ventas", "Profesional", "Planta Permanente", "Dependencia", "1001", "1", "85000", "0", "1850000"},
			{"2025-01-31", "Ventas", "Técnico", "Planta Permanente", "Dependencia", "1002", "1", "42000", "0", "1320000"},
			{"2025-01-31", "Operaciones", "Profesional", "Planta Transitoria", "Dependencia", "1003", "1", "0", "0", "1710000"},
			{"2025-01-31", "Administración", "Directivo", "Fuera de Nivel", "Dependencia", "1004", "1", "0", "0", "2940000"},
			{"2025-02-28", "Ventas", "Profesional", "Planta Permanente", "Dependencia", "1001", "1", "91000", "0", "1895000"},
			{"2025-02-28", "Ventas", "Técnico", "Planta Permanente", "Dependencia", "1002", "1", "38500", "64000", "1388500"},
			{"2025-02-28", "Operaciones", "Profesional", "Planta Transitoria", "Dependencia", "1003", "1", "0", "0", "1710000"},
			{"2025-02-28", "Administración", "Directivo", "Fuera de Nivel", "Dependencia", "1004", "1", "0", "0", "2940000"},
			{"2025-03-31", "Ventas", "Profesional", "Planta Permanente", "Dependencia", "1001", "1", "78000", "0", "1882000"},
			{"2025-03-31", "Operaciones", "Profesional", "Planta Transitoria", "Dependencia", "1003", "1", "12000", "0", "1722000"},
			{"2025-03-31", "Administración", "Directivo", "Fuera de Nivel", "Dependencia", "1004", "1", "0", "140000", "3080000"},
		},
	}
}

func seedAnnual() *payroll.Table {
	return &payroll.Table{
		Name: "Evolución Anual",
		Cells: [][]string{
			{"Control de Masa Salarial", "", "", ""},
			{"", "", "", ""},
			{"", "", "", ""},
			{"", "Planta Permanente", "Planta Transitoria", "Fuera de Nivel"},
			{"Enero", "3170000", "1710000", "2940000"},
			{"Febrero", "3283500", "1710000", "2940000"},
			{"Marzo", "1882000", "1722000", "3080000"},
		},
	}
}
