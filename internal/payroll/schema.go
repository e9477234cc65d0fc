package payroll

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the schema file format this build understands.
const SchemaVersion = 1

// Schema declares the workbook columns the normalizer recognizes: the
// mandatory period column, the measure columns, the four dimension columns,
// and the ordered set of currency-concept columns. Declaring columns up
// front keeps presence checks out of every downstream consumer; columns
// absent from a given workbook are simply skipped at normalization time.
type Schema struct {
	PeriodColumn     string
	TotalColumn      string
	HeadcountColumn  string
	EmployeeIDColumn string
	// DimensionColumns maps dimension keys (DimDepartment etc., except
	// DimMonth, which is derived) to their workbook column labels.
	DimensionColumns map[string]string
	// ConceptColumns lists the currency-concept columns in display order.
	// The concept pivot preserves this order, it is not alphabetical.
	ConceptColumns []string
}

// DefaultSchema returns the column layout of the masa_salarial workbook.
func DefaultSchema() Schema {
	return Schema{
		PeriodColumn:     "Período",
		TotalColumn:      "Total Mensual",
		HeadcountColumn:  "Dotación",
		EmployeeIDColumn: "Nro. de Legajo",
		DimensionColumns: map[string]string{
			DimDepartment:     "Gerencia",
			DimLevel:          "Nivel",
			DimClassification: "Clasificación Ministerio de Hacienda",
			DimRelationship:   "Relación",
		},
		ConceptColumns: []string{
			"Total Sujeto a Retención",
			"Vacaciones",
			"Alquiler",
			"Horas Extras",
			"Nómina General con Aportes",
			"Cs. Sociales s/Remunerativos",
			"Cargas Sociales Ant.",
			"IC Pagado",
			"Vacaciones Pagadas",
			"Cargas Sociales s/Vac. Pagadas",
			"Retribución Cargo 1.1.1.",
			"Antigüedad 1.1.3.",
			"Retribuciones Extraordinarias 1.3.1.",
			"Contribuciones Patronales",
			"Gratificación por Antigüedad",
			"Gratificación por Jubilación",
			"Total No Remunerativo",
			"SAC Horas Extras",
			"Cargas Sociales SAC Hextras",
			"SAC Pagado",
			"Cargas Sociales s/SAC Pagado",
			"Cargas Sociales Antigüedad",
			"Nómina General sin Aportes",
			"Gratificación Única y Extraordinaria",
			"Gastos de Representación",
			"Contribuciones Patronales 1.3.3.",
			"S.A.C. 1.3.2.",
			"S.A.C. 1.1.4.",
			"Contribuciones Patronales 1.1.6.",
			"Complementos 1.1.7.",
			"Asignaciones Familiares 1.4.",
		},
	}
}

// Validate checks that the schema names every mandatory column.
func (s Schema) Validate() error {
	if s.PeriodColumn == "" {
		return fmt.Errorf("schema: period column cannot be empty")
	}
	if s.TotalColumn == "" {
		return fmt.Errorf("schema: total column cannot be empty")
	}
	if s.HeadcountColumn == "" {
		return fmt.Errorf("schema: headcount column cannot be empty")
	}
	for _, dim := range Dimensions {
		if dim == DimMonth {
			continue
		}
		if s.DimensionColumns[dim] == "" {
			return fmt.Errorf("schema: no column mapped for dimension %q", dim)
		}
	}
	return nil
}

// schemaFile is the on-disk YAML representation of a schema override.
type schemaFile struct {
	Version          int               `yaml:"version"`
	PeriodColumn     string            `yaml:"period_column"`
	TotalColumn      string            `yaml:"total_column"`
	HeadcountColumn  string            `yaml:"headcount_column"`
	EmployeeIDColumn string            `yaml:"employee_id_column"`
	DimensionColumns map[string]string `yaml:"dimension_columns"`
	ConceptColumns   []string          `yaml:"concept_columns"`
}

// LoadSchemaFile reads a YAML schema override. Fields left empty in the file
// keep their default values; a non-empty concept list replaces the default
// list wholesale.
func LoadSchemaFile(path string) (Schema, error) {
	s := DefaultSchema()

	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file: %w", err)
	}

	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Schema{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	if f.Version != SchemaVersion {
		return Schema{}, fmt.Errorf("schema file %s: unsupported version %d (want %d)", path, f.Version, SchemaVersion)
	}

	if f.PeriodColumn != "" {
		s.PeriodColumn = f.PeriodColumn
	}
	if f.TotalColumn != "" {
		s.TotalColumn = f.TotalColumn
	}
	if f.HeadcountColumn != "" {
		s.HeadcountColumn = f.HeadcountColumn
	}
	if f.EmployeeIDColumn != "" {
		s.EmployeeIDColumn = f.EmployeeIDColumn
	}
	for dim, column := range f.DimensionColumns {
		valid := false
		for _, known := range Dimensions {
			if dim == known && dim != DimMonth {
				valid = true
				break
			}
		}
		if !valid {
			return Schema{}, fmt.Errorf("schema file %s: unknown dimension %q", path, dim)
		}
		s.DimensionColumns[dim] = column
	}
	if len(f.ConceptColumns) > 0 {
		s.ConceptColumns = f.ConceptColumns
	}

	if err := s.Validate(); err != nil {
		return Schema{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return s, nil
}
