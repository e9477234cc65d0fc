// Package payroll implements the salary-mass data pipeline: normalization of
// raw workbook grids into typed records, dimension filtering, aggregation,
// and headline KPIs. Everything in this package is a pure function over
// immutable record slices.
package payroll

import "time"

// Filterable dimensions. Month filters on the localized month name.
const (
	DimDepartment     = "department"
	DimLevel          = "level"
	DimClassification = "classification"
	DimRelationship   = "relationship"
	DimMonth          = "month"
)

// Dimensions lists the filterable dimensions in display order.
var Dimensions = []string{DimDepartment, DimLevel, DimClassification, DimRelationship, DimMonth}

// monthNames maps month numbers 1-12 to Spanish labels. Index 0 is unused.
// The order is load-bearing: chronological sorts go through MonthNumber.
var monthNames = [13]string{"",
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish label for a month number, or "" when out of range.
func MonthName(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return monthNames[n]
}

// MonthNumber returns the 1-12 number for a Spanish month label, or 0 when unknown.
func MonthNumber(name string) int {
	for n := 1; n <= 12; n++ {
		if monthNames[n] == name {
			return n
		}
	}
	return 0
}

type (
	// Table is a raw worksheet grid as delivered by a source, header
	// position unresolved.
	Table struct {
		Name  string
		Cells [][]string
	}

	// Record is one employee-month observation from the detail sheet.
	Record struct {
		Period         time.Time
		Month          int    // 1-12, derived from Period
		MonthName      string // Spanish label, derived from Month
		Department     string
		Level          string
		Classification string
		Relationship   string
		EmployeeID     string // opaque text, format varies in source data
		Headcount      float64
		Total          float64
		// Concepts holds the named currency-concept columns present in the
		// source, zero-filled where blank. Key presence means the column
		// existed, even if every value was blank.
		Concepts map[string]float64
	}

	// Selection maps a dimension to its selected values. A missing or empty
	// slice means the dimension is unrestricted: unchecking every option in
	// a filter UI must behave as "all", never as "none".
	Selection map[string][]string
)

// Dimension returns the record's value for a filterable dimension.
func (r Record) Dimension(name string) string {
	switch name {
	case DimDepartment:
		return r.Department
	case DimLevel:
		return r.Level
	case DimClassification:
		return r.Classification
	case DimRelationship:
		return r.Relationship
	case DimMonth:
		return r.MonthName
	}
	return ""
}

// Without returns a copy of the selection with one dimension unconstrained.
func (s Selection) Without(dim string) Selection {
	out := make(Selection, len(s))
	for d, values := range s {
		if d != dim {
			out[d] = values
		}
	}
	return out
}
