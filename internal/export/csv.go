// Package export renders a snapshot's filtered records into the download
// formats the dashboard offers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"masasalarial/internal/payroll"
)

// WriteCSV writes records under the workbook's own column labels, concept
// columns in declared order. The period is exported as "2006-01"; consumers
// group by month and the source day is bookkeeping noise.
func WriteCSV(w io.Writer, records []payroll.Record, schema payroll.Schema) error {
	cw := csv.NewWriter(w)

	concepts := presentConcepts(records, schema)

	header := []string{
		schema.PeriodColumn,
		schema.DimensionColumns[payroll.DimDepartment],
		schema.DimensionColumns[payroll.DimLevel],
		schema.DimensionColumns[payroll.DimClassification],
		schema.DimensionColumns[payroll.DimRelationship],
		schema.EmployeeIDColumn,
		schema.HeadcountColumn,
	}
	header = append(header, concepts...)
	header = append(header, schema.TotalColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := make([]string, 0, len(header))
		row = append(row,
			r.Period.Format("2006-01"),
			r.Department,
			r.Level,
			r.Classification,
			r.Relationship,
			r.EmployeeID,
			formatNumber(r.Headcount),
		)
		for _, concept := range concepts {
			row = append(row, formatNumber(r.Concepts[concept]))
		}
		row = append(row, formatNumber(r.Total))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// presentConcepts returns the declared concepts appearing in at least one
// record, keeping the declared order.
func presentConcepts(records []payroll.Record, schema payroll.Schema) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for concept := range r.Concepts {
			seen[concept] = struct{}{}
		}
	}
	var out []string
	for _, concept := range schema.ConceptColumns {
		if _, ok := seen[concept]; ok {
			out = append(out, concept)
		}
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
