package payroll

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeControl(t *testing.T) {
	table := Table{
		Name: "Evolución Anual",
		Cells: [][]string{
			{"Control de Masa Salarial", "", "", "", ""},
			{"", "", "", "", ""},
			{"", "", "", "", ""},
			{"", "Planta", "Contrato", "", "Eventuales"},
			{"Enero", "100", "50", "", ""},
			{"", "", "", "", ""},
			{"Febrero", "200", "", "", ""},
			{"Total general", "300", "50", "", ""},
		},
	}

	got, err := NormalizeControl(table, 3)
	if err != nil {
		t.Fatalf("NormalizeControl() error = %v", err)
	}

	// The all-blank Eventuales column and the unlabeled spacer are gone,
	// the stale hand-made total row is replaced by a recomputed one.
	want := &Pivot{
		Columns: []string{"Planta", "Contrato"},
		Rows: []PivotRow{
			{Label: "Enero", Values: []float64{100, 50}, Total: 150},
			{Label: "Febrero", Values: []float64{200, 0}, Total: 200},
			{Label: TotalRowLabel, Values: []float64{300, 50}, Total: 350},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeControl = %+v, want %+v", got, want)
	}
}

func TestNormalizeControlHeaderRowOutOfRange(t *testing.T) {
	table := Table{Name: "Evolución Anual", Cells: [][]string{{"", "Planta"}}}

	if _, err := NormalizeControl(table, 3); err == nil {
		t.Fatal("NormalizeControl() with out-of-range header row: want error")
	}
}

func TestNormalizeControlNoDataColumns(t *testing.T) {
	table := Table{
		Name: "Evolución Anual",
		Cells: [][]string{
			{"", "", ""},
			{"Enero", "", ""},
		},
	}

	_, err := NormalizeControl(table, 0)
	if err == nil || !strings.Contains(err.Error(), "no data columns") {
		t.Fatalf("error = %v, want no-data-columns error", err)
	}
}

func TestNormalizeControlEffectivelyEmptySheet(t *testing.T) {
	table := Table{
		Name: "Evolución Anual",
		Cells: [][]string{
			{"", "Planta", "Contrato"},
			{"Enero", "", ""},
			{"", "100", "200"},
		},
	}

	// Labeled rows with no values and valued rows with no label leave
	// nothing usable behind.
	if _, err := NormalizeControl(table, 0); err == nil {
		t.Fatal("NormalizeControl() on an effectively empty sheet: want error")
	}
}
