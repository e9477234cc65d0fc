package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	"masasalarial/internal/payroll"
)

func testSchema() payroll.Schema {
	s := payroll.DefaultSchema()
	s.ConceptColumns = []string{"Vacaciones", "Horas Extras"}
	return s
}

func exportRecord(month int, dept string, total float64, concepts map[string]float64) payroll.Record {
	return payroll.Record{
		Period:         time.Date(2025, time.Month(month), 28, 0, 0, 0, 0, time.UTC),
		Month:          month,
		MonthName:      payroll.MonthName(month),
		Department:     dept,
		Level:          "Profesional",
		Classification: "Planta",
		Relationship:   "Permanente",
		EmployeeID:     "1001",
		Headcount:      1,
		Total:          total,
		Concepts:       concepts,
	}
}

func TestWriteCSV(t *testing.T) {
	records := []payroll.Record{
		exportRecord(1, "Ventas", 1850000.5, map[string]float64{"Horas Extras": 85000, "Vacaciones": 0}),
		exportRecord(2, "Operaciones", 1710000, map[string]float64{"Horas Extras": 0, "Vacaciones": 64000}),
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, testSchema()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	wantHeader := []string{
		"Período", "Gerencia", "Nivel", "Clasificación Ministerio de Hacienda", "Relación",
		"Nro. de Legajo", "Dotación", "Vacaciones", "Horas Extras", "Total Mensual",
	}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}

	wantFirst := []string{"2025-01", "Ventas", "Profesional", "Planta", "Permanente", "1001", "1", "0", "85000", "1850000.5"}
	if !reflect.DeepEqual(rows[1], wantFirst) {
		t.Errorf("first row = %v, want %v", rows[1], wantFirst)
	}
}

func TestWriteCSVEmptyRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, testSchema()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want header only", len(rows))
	}
	// No records means no concept columns either.
	want := []string{
		"Período", "Gerencia", "Nivel", "Clasificación Ministerio de Hacienda", "Relación",
		"Nro. de Legajo", "Dotación", "Total Mensual",
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("header = %v, want %v", rows[0], want)
	}
}

func TestWriteCSVDropsAbsentConcepts(t *testing.T) {
	records := []payroll.Record{
		exportRecord(1, "Ventas", 100, map[string]float64{"Horas Extras": 10}),
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, testSchema()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, _ := csv.NewReader(&buf).ReadAll()
	for _, col := range rows[0] {
		if col == "Vacaciones" {
			t.Error("Vacaciones column exported although no record carries it")
		}
	}
}
