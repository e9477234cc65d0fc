package http

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"masasalarial/internal/payroll"
)

// Preview pagination bounds. Out-of-range values clamp instead of erroring;
// a dashboard poking at the limit should degrade, not break.
const (
	defaultPreviewLimit = 200
	minPreviewLimit     = 10
	maxPreviewLimit     = 1000
)

// parseSelection reads one repeated query parameter per dimension, e.g.
// ?department=Ventas&month=Enero&month=Febrero. Absent or blank parameters
// leave the dimension unrestricted.
func parseSelection(query url.Values) payroll.Selection {
	sel := payroll.Selection{}
	for _, dim := range payroll.Dimensions {
		var values []string
		for _, v := range query[dim] {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			sel[dim] = values
		}
	}
	return sel
}

type previewPage struct {
	Limit  int
	Offset int
}

// String renders the page for cache keys.
func (p previewPage) String() string {
	return strconv.Itoa(p.Limit) + "@" + strconv.Itoa(p.Offset)
}

func parsePreviewPage(query url.Values) previewPage {
	page := previewPage{Limit: defaultPreviewLimit}
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Limit = n
		}
	}
	if page.Limit < minPreviewLimit {
		page.Limit = minPreviewLimit
	}
	if page.Limit > maxPreviewLimit {
		page.Limit = maxPreviewLimit
	}
	if v := strings.TrimSpace(query.Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page.Offset = n
		}
	}
	return page
}

// selectionKey renders a selection canonically for response cache keys:
// dimensions in their fixed order, values sorted, so equivalent requests
// share an entry.
func selectionKey(sel payroll.Selection) string {
	var b strings.Builder
	for _, dim := range payroll.Dimensions {
		values := sel[dim]
		if len(values) == 0 {
			continue
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		b.WriteString(dim)
		b.WriteByte('=')
		b.WriteString(strings.Join(sorted, ","))
		b.WriteByte(';')
	}
	return b.String()
}
