package payroll

import (
	"fmt"
	"strings"
)

// NormalizeControl parses the pre-aggregated annual evolution sheet into a
// Pivot. The sheet is a classification × month cross-check table maintained
// by hand in the source workbook: headers sit on headerRow, the leading
// column carries the month labels, and a grand-total row may or may not be
// present. Fully blank rows and columns are discarded, any existing
// "Total general" row is dropped, and a fresh Total row is appended from the
// kept rows so the display never mixes stale hand-made totals with data.
//
// The control table is an independent dataset: nothing here is reconciled
// against the detail records.
func NormalizeControl(t Table, headerRow int) (*Pivot, error) {
	if headerRow < 0 || headerRow >= len(t.Cells) {
		return nil, fmt.Errorf("annual sheet %q has no header row %d", t.Name, headerRow)
	}

	header := t.Cells[headerRow]
	type column struct {
		label string
		idx   int
	}
	var columns []column
	for i := 1; i < len(header); i++ {
		if label := strings.TrimSpace(header[i]); label != "" {
			columns = append(columns, column{label: label, idx: i})
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("annual sheet %q has no data columns", t.Name)
	}

	// First pass: keep rows with a label and at least one value, note which
	// columns hold any data at all.
	type dataRow struct {
		label string
		cells []string
	}
	var kept []dataRow
	populated := make([]bool, len(columns))
	for _, row := range t.Cells[headerRow+1:] {
		label := strings.TrimSpace(cellAt(row, 0))
		if label == "" || label == TotalRowLabel || label == TotalColumnLabel {
			continue
		}
		hasData := false
		for i, col := range columns {
			if strings.TrimSpace(cellAt(row, col.idx)) != "" {
				populated[i] = true
				hasData = true
			}
		}
		if !hasData {
			continue
		}
		kept = append(kept, dataRow{label: label, cells: row})
	}

	// Columns that never held a value mirror the source's blank spacer
	// columns and are dropped.
	var live []column
	for i, col := range columns {
		if populated[i] {
			live = append(live, col)
		}
	}
	if len(live) == 0 {
		return nil, fmt.Errorf("annual sheet %q has no data columns", t.Name)
	}

	labels := make([]string, len(live))
	for i, col := range live {
		labels[i] = col.label
	}

	rows := make([]PivotRow, 0, len(kept)+1)
	colSums := make([]float64, len(live))
	for _, dr := range kept {
		values := make([]float64, len(live))
		var total float64
		for i, col := range live {
			v := parseAmount(cellAt(dr.cells, col.idx))
			values[i] = v
			total += v
			colSums[i] += v
		}
		rows = append(rows, PivotRow{Label: dr.label, Values: values, Total: total})
	}

	pivot := &Pivot{Columns: labels, Rows: rows}
	if len(rows) > 0 {
		var grand float64
		for _, sum := range colSums {
			grand += sum
		}
		pivot.Rows = append(pivot.Rows, PivotRow{Label: TotalRowLabel, Values: colSums, Total: grand})
	}
	return pivot, nil
}
