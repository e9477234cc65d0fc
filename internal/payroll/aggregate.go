package payroll

import "sort"

// Labels of the synthetic total rows/columns appended to aggregates. They
// match the source workbook's wording, which the presentation layer shows
// verbatim.
const (
	TotalRowLabel    = "Total"
	TotalColumnLabel = "Total general"
)

type (
	// AggregateRow pairs a group key with its summed value.
	AggregateRow struct {
		Key   string  `json:"key"`
		Value float64 `json:"value"`
	}

	// ShareRow is an AggregateRow with the group's share of the grand total.
	ShareRow struct {
		Key   string  `json:"key"`
		Value float64 `json:"value"`
		Share float64 `json:"share"`
	}

	// PivotRow is one labelled row of a Pivot, Values aligned with the
	// pivot's Columns and Total holding the row-wise sum.
	PivotRow struct {
		Label  string    `json:"label"`
		Values []float64 `json:"values"`
		Total  float64   `json:"total"`
	}

	// Pivot is a measure cross-tabulated over two axes.
	Pivot struct {
		Columns []string   `json:"columns"`
		Rows    []PivotRow `json:"rows"`
	}
)

// Every aggregation appends its Total row as the sum of the group values it
// just computed, never by re-summing records: detail and total must come
// from the same numbers. Empty input produces an empty aggregate with no
// Total row at all.

// MonthlyTotals sums the monthly amount per month, chronologically ordered,
// with a trailing Total row.
func MonthlyTotals(records []Record) []AggregateRow {
	sums := make(map[int]float64)
	for _, r := range records {
		sums[r.Month] += r.Total
	}
	if len(sums) == 0 {
		return nil
	}

	months := make([]int, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Ints(months)

	rows := make([]AggregateRow, 0, len(months)+1)
	var grand float64
	for _, m := range months {
		rows = append(rows, AggregateRow{Key: MonthName(m), Value: sums[m]})
		grand += sums[m]
	}
	return append(rows, AggregateRow{Key: TotalRowLabel, Value: grand})
}

// DepartmentTotals sums the monthly amount per department, largest first.
// The descending order is what the bar chart and its side table both key on.
func DepartmentTotals(records []Record) []AggregateRow {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[r.Department] += r.Total
	}
	if len(sums) == 0 {
		return nil
	}

	rows := make([]AggregateRow, 0, len(sums)+1)
	var grand float64
	for key, value := range sums {
		rows = append(rows, AggregateRow{Key: key, Value: value})
		grand += value
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Key < rows[j].Key
	})
	return append(rows, AggregateRow{Key: TotalRowLabel, Value: grand})
}

// ClassificationShares sums the monthly amount per classification with each
// group's share of the grand total, largest first. Shares are 0 when the
// grand total is 0; the synthetic Total row carries share 1 in any other
// case.
func ClassificationShares(records []Record) []ShareRow {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[r.Classification] += r.Total
	}
	if len(sums) == 0 {
		return nil
	}

	rows := make([]ShareRow, 0, len(sums)+1)
	var grand float64
	for key, value := range sums {
		rows = append(rows, ShareRow{Key: key, Value: value})
		grand += value
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Key < rows[j].Key
	})

	totalShare := 0.0
	if grand != 0 {
		for i := range rows {
			rows[i].Share = rows[i].Value / grand
		}
		totalShare = 1
	}
	return append(rows, ShareRow{Key: TotalRowLabel, Value: grand, Share: totalShare})
}

// ConceptPivot cross-tabulates the currency concepts against the months
// present in the records. Row order follows the declared concept order with
// concepts absent from the data dropped entirely; cells with no bookings
// are zero-filled, and the trailing column is the row-wise "Total general".
func ConceptPivot(records []Record, concepts []string) Pivot {
	months := distinctMonths(records)
	if len(months) == 0 {
		return Pivot{}
	}

	cells := make(map[string]map[int]float64)
	for _, r := range records {
		for concept, v := range r.Concepts {
			byMonth := cells[concept]
			if byMonth == nil {
				byMonth = make(map[int]float64, len(months))
				cells[concept] = byMonth
			}
			byMonth[r.Month] += v
		}
	}

	columns := make([]string, len(months))
	for i, m := range months {
		columns[i] = MonthName(m)
	}

	rows := make([]PivotRow, 0, len(cells))
	for _, concept := range concepts {
		byMonth, present := cells[concept]
		if !present {
			continue
		}
		values := make([]float64, len(months))
		var total float64
		for i, m := range months {
			values[i] = byMonth[m]
			total += byMonth[m]
		}
		rows = append(rows, PivotRow{Label: concept, Values: values, Total: total})
	}
	return Pivot{Columns: columns, Rows: rows}
}

// ClassificationCrossTab cross-tabulates the monthly amount with months as
// chronological rows and classifications as lexicographic columns. The
// "Total general" column holds row sums and the trailing Total row holds
// column sums; the grand total is the sum of the column sums, so it matches
// independently of row order.
func ClassificationCrossTab(records []Record) Pivot {
	months := distinctMonths(records)
	if len(months) == 0 {
		return Pivot{}
	}

	classSet := make(map[string]struct{})
	cells := make(map[int]map[string]float64, len(months))
	for _, r := range records {
		classSet[r.Classification] = struct{}{}
		byClass := cells[r.Month]
		if byClass == nil {
			byClass = make(map[string]float64)
			cells[r.Month] = byClass
		}
		byClass[r.Classification] += r.Total
	}

	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	rows := make([]PivotRow, 0, len(months)+1)
	colSums := make([]float64, len(classes))
	for _, m := range months {
		values := make([]float64, len(classes))
		var total float64
		for i, c := range classes {
			v := cells[m][c]
			values[i] = v
			total += v
			colSums[i] += v
		}
		rows = append(rows, PivotRow{Label: MonthName(m), Values: values, Total: total})
	}

	var grand float64
	for _, sum := range colSums {
		grand += sum
	}
	rows = append(rows, PivotRow{Label: TotalRowLabel, Values: colSums, Total: grand})

	return Pivot{Columns: classes, Rows: rows}
}

func distinctMonths(records []Record) []int {
	seen := make(map[int]struct{})
	for _, r := range records {
		seen[r.Month] = struct{}{}
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}
