package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// headerScanRows bounds the header search. Observed workbook variants place
// the header on the first or second row, never deeper.
const headerScanRows = 2

// SchemaError reports a mandatory column missing after header resolution.
// It is fatal to a load: no records are produced alongside it.
type SchemaError struct {
	Missing string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("mandatory column %q not found (columns found: %s)",
		e.Missing, strings.Join(e.Found, ", "))
}

// Diagnostics accumulates per-load row rejections. Rejections are never
// fatal; the counts exist so that spreadsheet drift shows up in monitoring
// instead of silently shrinking the dataset.
type Diagnostics struct {
	SourceRows              int      `json:"source_rows"`
	Kept                    int      `json:"kept"`
	DroppedBadPeriod        int      `json:"dropped_bad_period"`
	DroppedMissingDimension int      `json:"dropped_missing_dimension"`
	Columns                 []string `json:"columns"`
}

// Normalize parses a raw detail grid into typed records.
//
// The header row is located by searching the first rows for the schema's
// period column; empty and "Unnamed: N" placeholder labels (index-column
// artifacts) are discarded. A missing period column aborts with a
// *SchemaError naming the columns that were found. Data rows are dropped,
// and counted, when their period does not parse or any dimension value is
// blank; measure columns coerce blank and non-numeric cells to 0.
func Normalize(t Table, s Schema) ([]Record, Diagnostics, error) {
	var diag Diagnostics

	headerIdx, columns := resolveHeader(t.Cells, s.PeriodColumn)
	if headerIdx < 0 {
		diag.Columns = columns
		return nil, diag, &SchemaError{Missing: s.PeriodColumn, Found: columns}
	}

	index := make(map[string]int, len(columns))
	labels := make([]string, 0, len(columns))
	for i, raw := range t.Cells[headerIdx] {
		label := strings.TrimSpace(raw)
		if label == "" || strings.HasPrefix(label, "Unnamed") {
			continue
		}
		if _, dup := index[label]; dup {
			continue
		}
		index[label] = i
		labels = append(labels, label)
	}
	diag.Columns = labels

	periodIdx := index[s.PeriodColumn]
	conceptIdx := make(map[string]int, len(s.ConceptColumns))
	for _, concept := range s.ConceptColumns {
		if i, ok := index[concept]; ok {
			conceptIdx[concept] = i
		}
	}

	var records []Record
	for _, row := range t.Cells[headerIdx+1:] {
		if blankRow(row) {
			continue
		}
		diag.SourceRows++

		period, ok := parsePeriod(cellAt(row, periodIdx))
		if !ok {
			diag.DroppedBadPeriod++
			continue
		}

		rec := Record{
			Period:    period,
			Month:     int(period.Month()),
			MonthName: MonthName(int(period.Month())),
		}

		missingDim := false
		for dim, column := range s.DimensionColumns {
			i, present := index[column]
			value := ""
			if present {
				value = strings.TrimSpace(cellAt(row, i))
			}
			if value == "" {
				missingDim = true
				break
			}
			switch dim {
			case DimDepartment:
				rec.Department = value
			case DimLevel:
				rec.Level = value
			case DimClassification:
				rec.Classification = value
			case DimRelationship:
				rec.Relationship = value
			}
		}
		if missingDim {
			diag.DroppedMissingDimension++
			continue
		}

		if i, ok := index[s.HeadcountColumn]; ok {
			rec.Headcount = parseAmount(cellAt(row, i))
		}
		if i, ok := index[s.TotalColumn]; ok {
			rec.Total = parseAmount(cellAt(row, i))
		}
		if i, ok := index[s.EmployeeIDColumn]; ok {
			rec.EmployeeID = strings.TrimSpace(cellAt(row, i))
		}

		if len(conceptIdx) > 0 {
			rec.Concepts = make(map[string]float64, len(conceptIdx))
			for concept, i := range conceptIdx {
				rec.Concepts[concept] = parseAmount(cellAt(row, i))
			}
		}

		records = append(records, rec)
	}

	diag.Kept = len(records)
	return records, diag, nil
}

// resolveHeader finds the row holding the period column. It returns -1 and
// the cleaned labels of the first row when no candidate row matches.
func resolveHeader(cells [][]string, periodColumn string) (int, []string) {
	limit := headerScanRows
	if len(cells) < limit {
		limit = len(cells)
	}
	for i := 0; i < limit; i++ {
		for _, raw := range cells[i] {
			if strings.TrimSpace(raw) == periodColumn {
				return i, nil
			}
		}
	}

	var found []string
	if len(cells) > 0 {
		for _, raw := range cells[0] {
			if label := strings.TrimSpace(raw); label != "" {
				found = append(found, label)
			}
		}
	}
	return -1, found
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// periodLayouts are tried in order. Day-first layouts come before US ones:
// the source system exports Argentine dd/mm dates.
var periodLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01",
	"01/02/06",
}

// parsePeriod accepts ISO and day-first date strings plus Excel date
// serials. The serial range keeps plain years and legajo numbers from being
// read as dates.
func parsePeriod(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 20000 && serial <= 80000 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range periodLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parseAmount coerces a currency or headcount cell to a number. Blank and
// non-numeric cells become 0: in the source system a blank cell means no
// cost booked that month, not an error. Both "1.234,56" and "1,234.56"
// separator conventions are accepted.
func parseAmount(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	value = strings.ReplaceAll(value, "$", "")
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, " ", "")

	dot := strings.LastIndex(value, ".")
	comma := strings.LastIndex(value, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			value = strings.ReplaceAll(value, ".", "")
			value = strings.Replace(value, ",", ".", 1)
		} else {
			value = strings.ReplaceAll(value, ",", "")
		}
	case comma >= 0:
		if strings.Count(value, ",") == 1 && len(value)-comma-1 <= 2 {
			value = strings.Replace(value, ",", ".", 1)
		} else {
			value = strings.ReplaceAll(value, ",", "")
		}
	case dot >= 0:
		// Several dots can only be Argentine thousand grouping.
		if strings.Count(value, ".") > 1 {
			value = strings.ReplaceAll(value, ".", "")
		}
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
