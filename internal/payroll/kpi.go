package payroll

// NoMonthLabel is surfaced when an empty record set has no latest month. It
// must stay distinguishable from a real month label, never defaulted to
// Enero.
const NoMonthLabel = "N/A"

// KPIs are the headline scalars of the dashboard.
type KPIs struct {
	// TotalMass is the summed monthly amount over all input records.
	TotalMass float64 `json:"total_mass"`
	// LatestMonth is the highest month number present, 0 when there is none.
	LatestMonth int `json:"latest_month"`
	// LatestMonthName labels LatestMonth, NoMonthLabel when there is none.
	LatestMonthName string `json:"latest_month_name"`
	// Headcount is the summed headcount of the latest month only.
	Headcount float64 `json:"headcount"`
	// AverageCost is TotalMass per head of the latest month. A zero
	// headcount yields 0, never an error or NaN.
	AverageCost float64 `json:"average_cost"`
}

// ComputeKPIs derives the headline scalars from a (typically filtered)
// record set.
func ComputeKPIs(records []Record) KPIs {
	if len(records) == 0 {
		return KPIs{LatestMonthName: NoMonthLabel}
	}

	kpis := KPIs{}
	for _, r := range records {
		kpis.TotalMass += r.Total
		if r.Month > kpis.LatestMonth {
			kpis.LatestMonth = r.Month
		}
	}
	kpis.LatestMonthName = MonthName(kpis.LatestMonth)

	for _, r := range records {
		if r.Month == kpis.LatestMonth {
			kpis.Headcount += r.Headcount
		}
	}
	if kpis.Headcount > 0 {
		kpis.AverageCost = kpis.TotalMass / kpis.Headcount
	}
	return kpis
}
