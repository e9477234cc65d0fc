package payroll

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.PeriodColumn != "Período" {
		t.Errorf("PeriodColumn = %q, want Período", s.PeriodColumn)
	}
	if s.DimensionColumns[DimClassification] != "Clasificación Ministerio de Hacienda" {
		t.Errorf("classification column = %q", s.DimensionColumns[DimClassification])
	}
	if len(s.ConceptColumns) != 31 {
		t.Errorf("len(ConceptColumns) = %d, want 31", len(s.ConceptColumns))
	}
	for _, concept := range s.ConceptColumns {
		if concept == s.TotalColumn {
			t.Errorf("total column %q must not double as a concept", s.TotalColumn)
		}
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"empty period column", func(s *Schema) { s.PeriodColumn = "" }},
		{"empty total column", func(s *Schema) { s.TotalColumn = "" }},
		{"empty headcount column", func(s *Schema) { s.HeadcountColumn = "" }},
		{"unmapped dimension", func(s *Schema) { delete(s.DimensionColumns, DimLevel) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchema()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func writeSchemaFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write schema file: %v", err)
	}
	return path
}

func TestLoadSchemaFile(t *testing.T) {
	path := writeSchemaFile(t, `
version: 1
period_column: Fecha
dimension_columns:
  department: Sector
concept_columns:
  - Horas Extras
  - Vacaciones
`)

	s, err := LoadSchemaFile(path)
	if err != nil {
		t.Fatalf("LoadSchemaFile() error = %v", err)
	}
	if s.PeriodColumn != "Fecha" {
		t.Errorf("PeriodColumn = %q, want Fecha", s.PeriodColumn)
	}
	if s.DimensionColumns[DimDepartment] != "Sector" {
		t.Errorf("department column = %q, want Sector", s.DimensionColumns[DimDepartment])
	}
	// Untouched fields keep their defaults.
	if s.TotalColumn != "Total Mensual" {
		t.Errorf("TotalColumn = %q, want default", s.TotalColumn)
	}
	if s.DimensionColumns[DimLevel] != "Nivel" {
		t.Errorf("level column = %q, want default", s.DimensionColumns[DimLevel])
	}
	// A non-empty concept list replaces the default wholesale.
	if len(s.ConceptColumns) != 2 || s.ConceptColumns[0] != "Horas Extras" {
		t.Errorf("ConceptColumns = %v", s.ConceptColumns)
	}
}

func TestLoadSchemaFileRejectsUnsupportedVersion(t *testing.T) {
	path := writeSchemaFile(t, "version: 2\nperiod_column: Fecha\n")

	if _, err := LoadSchemaFile(path); err == nil {
		t.Fatal("LoadSchemaFile() with version 2: want error")
	}
}

func TestLoadSchemaFileRejectsUnknownDimension(t *testing.T) {
	path := writeSchemaFile(t, `
version: 1
dimension_columns:
  branch: Sucursal
`)

	if _, err := LoadSchemaFile(path); err == nil {
		t.Fatal("LoadSchemaFile() with unknown dimension: want error")
	}
}

func TestLoadSchemaFileMissingFile(t *testing.T) {
	if _, err := LoadSchemaFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadSchemaFile() on a missing file: want error")
	}
}

func TestLoadSchemaFileInvalidYAML(t *testing.T) {
	path := writeSchemaFile(t, "version: [1\n")

	if _, err := LoadSchemaFile(path); err == nil {
		t.Fatal("LoadSchemaFile() on invalid YAML: want error")
	}
}
