package payroll

import (
	"math"
	"testing"
)

func TestComputeKPIs(t *testing.T) {
	records := []Record{
		rec(1, "Ventas", "Profesional", "Planta", "Permanente", 2, 1000),
		rec(1, "Operaciones", "Técnico", "Planta", "Contratado", 1, 500),
	}

	got := ComputeKPIs(records)
	want := KPIs{
		TotalMass:       1500,
		LatestMonth:     1,
		LatestMonthName: "Enero",
		Headcount:       3,
		AverageCost:     500,
	}
	if got != want {
		t.Fatalf("ComputeKPIs = %+v, want %+v", got, want)
	}
}

func TestComputeKPIsHeadcountCountsLatestMonthOnly(t *testing.T) {
	records := []Record{
		rec(1, "Ventas", "Profesional", "Planta", "Permanente", 5, 1000),
		rec(3, "Ventas", "Profesional", "Planta", "Permanente", 1, 600),
		rec(3, "Operaciones", "Técnico", "Planta", "Contratado", 1, 400),
	}

	got := ComputeKPIs(records)
	if got.TotalMass != 2000 {
		t.Errorf("TotalMass = %v, want 2000 (all months)", got.TotalMass)
	}
	if got.LatestMonth != 3 || got.LatestMonthName != "Marzo" {
		t.Errorf("latest month = %d %q, want 3 Marzo", got.LatestMonth, got.LatestMonthName)
	}
	if got.Headcount != 2 {
		t.Errorf("Headcount = %v, want 2 (March only)", got.Headcount)
	}
	if got.AverageCost != 1000 {
		t.Errorf("AverageCost = %v, want 1000", got.AverageCost)
	}
}

func TestComputeKPIsZeroHeadcount(t *testing.T) {
	records := []Record{
		rec(4, "Ventas", "Profesional", "Planta", "Permanente", 0, 100),
	}

	got := ComputeKPIs(records)
	if got.AverageCost != 0 {
		t.Errorf("AverageCost = %v, want 0 on zero headcount", got.AverageCost)
	}
	if math.IsNaN(got.AverageCost) || math.IsInf(got.AverageCost, 0) {
		t.Errorf("AverageCost = %v, division guard failed", got.AverageCost)
	}
}

func TestComputeKPIsEmptyInput(t *testing.T) {
	got := ComputeKPIs(nil)
	want := KPIs{LatestMonthName: NoMonthLabel}
	if got != want {
		t.Fatalf("ComputeKPIs(nil) = %+v, want %+v", got, want)
	}
}
