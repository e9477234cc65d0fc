package http

import (
	"net/url"
	"reflect"
	"testing"

	"masasalarial/internal/payroll"
)

func TestParseSelection(t *testing.T) {
	query := url.Values{
		"department": {"Ventas", "Operaciones"},
		"month":      {" Enero ", ""},
		"level":      {"   "},
		"bogus":      {"ignored"},
	}

	got := parseSelection(query)
	want := payroll.Selection{
		"department": {"Ventas", "Operaciones"},
		"month":      {"Enero"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseSelection = %v, want %v", got, want)
	}
}

func TestParseSelectionEmpty(t *testing.T) {
	if got := parseSelection(url.Values{}); len(got) != 0 {
		t.Fatalf("empty query produced selection %v", got)
	}
}

func TestParsePreviewPage(t *testing.T) {
	cases := []struct {
		name  string
		query url.Values
		want  previewPage
	}{
		{"defaults", url.Values{}, previewPage{Limit: defaultPreviewLimit}},
		{"explicit", url.Values{"limit": {"50"}, "offset": {"100"}}, previewPage{Limit: 50, Offset: 100}},
		{"below minimum clamps", url.Values{"limit": {"3"}}, previewPage{Limit: minPreviewLimit}},
		{"above maximum clamps", url.Values{"limit": {"99999"}}, previewPage{Limit: maxPreviewLimit}},
		{"garbage falls back", url.Values{"limit": {"abc"}, "offset": {"xyz"}}, previewPage{Limit: defaultPreviewLimit}},
		{"negative offset ignored", url.Values{"offset": {"-5"}}, previewPage{Limit: defaultPreviewLimit}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parsePreviewPage(tc.query); got != tc.want {
				t.Errorf("parsePreviewPage(%v) = %+v, want %+v", tc.query, got, tc.want)
			}
		})
	}
}

func TestSelectionKeyCanonical(t *testing.T) {
	a := payroll.Selection{"department": {"Ventas", "Operaciones"}, "month": {"Enero"}}
	b := payroll.Selection{"month": {"Enero"}, "department": {"Operaciones", "Ventas"}}

	if selectionKey(a) != selectionKey(b) {
		t.Fatalf("equivalent selections produced different keys: %q vs %q", selectionKey(a), selectionKey(b))
	}
	if selectionKey(a) == selectionKey(payroll.Selection{"department": {"Ventas"}}) {
		t.Fatalf("different selections share a key")
	}
	if selectionKey(payroll.Selection{}) != "" {
		t.Fatalf("empty selection key = %q", selectionKey(payroll.Selection{}))
	}
}
