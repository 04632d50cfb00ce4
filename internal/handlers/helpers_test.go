package handlers

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		input string
		def   int
		want  int
	}{
		{"5", 1, 5},
		{"", 7, 7},
		{"abc", 7, 7},
		{"0", 7, 7},
		{"-3", 7, 7},
		{"24", 1, 24},
	}

	for _, c := range cases {
		if got := atoiDefault(c.input, c.def); got != c.want {
			t.Errorf("atoiDefault(%q, %d) = %d, want %d", c.input, c.def, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got := parseDate("2026-08-29")
	want := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDate() = %v, want %v", got, want)
	}

	if !parseDate("").IsZero() {
		t.Error("parseDate(empty) should be zero time")
	}
	if !parseDate("29-08-2026").IsZero() {
		t.Error("parseDate(wrong format) should be zero time")
	}
}

func TestIsValidFilename(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"2026-08-29_12-00-00.000_upload_none.jpg", true},
		{"", false},
		{"../etc/passwd", false},
		{"a/b.jpg", false},
		{"a\\b.jpg", false},
		{"bad\x00name.jpg", false},
		{"..", false},
	}

	for _, c := range cases {
		if got := isValidFilename(c.name); got != c.valid {
			t.Errorf("isValidFilename(%q) = %v, want %v", c.name, got, c.valid)
		}
	}
}

func TestHistoryFiltersFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/history?object=knife&alert=weapon&source=webcam&dateAfter=2026-01-01", nil)

	filters := historyFiltersFromQuery(r)
	if filters.Object != "knife" {
		t.Errorf("Object = %q, want knife", filters.Object)
	}
	if filters.Alert != "weapon" {
		t.Errorf("Alert = %q, want weapon", filters.Alert)
	}
	if filters.Source != "webcam" {
		t.Errorf("Source = %q, want webcam", filters.Source)
	}
	if filters.DateAfter.IsZero() {
		t.Error("DateAfter should be parsed")
	}
	if !filters.DateBefore.IsZero() {
		t.Error("DateBefore should stay zero when absent")
	}
}
