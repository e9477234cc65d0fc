package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"masasalarial/internal/payroll"
)

// Report bundles what the PDF summary renders.
type Report struct {
	GeneratedAt time.Time
	Fingerprint string
	Filters     payroll.Selection
	KPIs        payroll.KPIs
	Monthly     []payroll.AggregateRow
	Departments []payroll.AggregateRow
}

// WritePDF renders a one-page summary: the headline KPIs, the monthly
// evolution, and the department ranking, noting the filters that were
// active when the export was requested.
func WritePDF(w io.Writer, report Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps the Spanish labels intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Resumen de Masa Salarial"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Resumen de Masa Salarial"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	meta := "Generado " + report.GeneratedAt.Format("2006-01-02 15:04 MST")
	if report.Fingerprint != "" {
		meta += " / datos " + shortFingerprint(report.Fingerprint)
	}
	pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
	if filters := formatFilters(report.Filters); filters != "" {
		pdf.CellFormat(0, 5, tr("Filtros: "+filters), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr("Indicadores"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	kpiRow(pdf, tr, "Masa salarial total", "$ "+formatAmount(report.KPIs.TotalMass))
	kpiRow(pdf, tr, "Último mes", report.KPIs.LatestMonthName)
	kpiRow(pdf, tr, "Dotación (último mes)", formatNumber(report.KPIs.Headcount))
	kpiRow(pdf, tr, "Costo promedio por empleado", "$ "+formatAmount(report.KPIs.AverageCost))
	pdf.Ln(4)

	writeTable(pdf, tr, "Evolución mensual", "Mes", report.Monthly)
	pdf.Ln(4)
	writeTable(pdf, tr, "Masa por gerencia", "Gerencia", report.Departments)

	return pdf.Output(w)
}

func kpiRow(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(70, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}

func writeTable(pdf *gofpdf.Fpdf, tr func(string) string, title, keyHeader string, rows []payroll.AggregateRow) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(80, 6, tr(keyHeader), "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 6, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		if row.Key == payroll.TotalRowLabel {
			pdf.SetFont("Helvetica", "B", 9)
		}
		pdf.CellFormat(80, 6, tr(row.Key), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "$ "+formatAmount(row.Value), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 9)
}

func formatFilters(sel payroll.Selection) string {
	var parts []string
	for _, dim := range payroll.Dimensions {
		values := sel[dim]
		if len(values) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", dim, strings.Join(values, "|")))
	}
	return strings.Join(parts, "; ")
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// formatAmount renders an amount with es-AR separators: "1.234.567,89".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
