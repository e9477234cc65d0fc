package payroll

import "sort"

// Apply returns the records matching the selection. A record passes when,
// for every dimension carrying a non-empty selection, its value is a member
// of that set; unrestricted dimensions impose no constraint. The input slice
// is never mutated and the result is always a fresh slice.
func Apply(records []Record, sel Selection) []Record {
	sets := make(map[string]map[string]struct{}, len(sel))
	for dim, values := range sel {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[dim] = set
	}

	if len(sets) == 0 {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		match := true
		for dim, set := range sets {
			if _, ok := set[r.Dimension(dim)]; !ok {
				match = false
				break
			}
		}
		if match {
			out = append(out, r)
		}
	}
	return out
}

// Options returns the values still selectable for one dimension given the
// rest of the current selection: the other dimensions' selections are
// applied, the dimension itself is left unconstrained, and the distinct
// surviving values are sorted. Months sort chronologically, every other
// dimension lexicographically.
func Options(records []Record, sel Selection, dim string) []string {
	subset := Apply(records, sel.Without(dim))

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range subset {
		v := r.Dimension(dim)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if dim == DimMonth {
		sort.Slice(out, func(i, j int) bool {
			return MonthNumber(out[i]) < MonthNumber(out[j])
		})
	} else {
		sort.Strings(out)
	}
	return out
}

// AllOptions computes Options for every dimension at once, keyed by
// dimension name.
func AllOptions(records []Record, sel Selection) map[string][]string {
	out := make(map[string][]string, len(Dimensions))
	for _, dim := range Dimensions {
		out[dim] = Options(records, sel, dim)
	}
	return out
}
