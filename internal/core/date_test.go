package core

import (
	"testing"
	"time"
)

func TestNormalizeDateSerial(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1899-12-31"},
		{25569, "1970-01-01"},
		{45971, "2025-11-10"},
		{45971.0001, "2025-11-10"},  // fractional-day noise rounds down
		{45970.9999, "2025-11-10"},  // ...and up, to the same day
		{45971.4999, "2025-11-10"},
	}
	for i, tc := range cases {
		d, ok := NormalizeDate(tc.in)
		if !ok {
			t.Fatalf("case %d: expected parseable, got unparseable", i)
		}
		if got := d.ISO(); got != tc.want {
			t.Fatalf("case %d: got %s, want %s", i, got, tc.want)
		}
	}
}

func TestNormalizeDateRoundingEquivalence(t *testing.T) {
	// NormalizeDate(d) and NormalizeDate(round(d)) must agree for any
	// offset; sample across fractional positions.
	for _, frac := range []float64{0.0, 0.1, 0.4999, 0.5, 0.9, 0.9999} {
		serial := 45000.0 + frac
		rounded := float64(int(serial + 0.5))
		a, okA := NormalizeDate(serial)
		b, okB := NormalizeDate(rounded)
		if !okA || !okB {
			t.Fatalf("frac %v: expected both parseable", frac)
		}
		if a.ISO() != b.ISO() {
			t.Fatalf("frac %v: %s != %s", frac, a.ISO(), b.ISO())
		}
	}
}

func TestNormalizeDateStrings(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-11-10", "2025-11-10", true},
		{"2025-11-10T14:30:00", "2025-11-10", true}, // time suffix ignored
		{"10/11/2025", "2025-11-10", true},          // day-month-year
		{"10-11-2025", "2025-11-10", true},
		{"01/02/2026", "2026-02-01", true}, // ambiguous reads as D/M/Y
		{"45971", "2025-11-10", true},      // raw workbook cell
		{"", "", false},
		{"not a date", "", false},
		{"10/11/99", "", false},   // 2-digit year rejected
		{"10/11/1899", "", false}, // year must be > 1900
		{"32/01/2025", "", false},
	}
	for i, tc := range cases {
		d, ok := NormalizeDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("case %d (%q): ok=%v, want %v", i, tc.in, ok, tc.ok)
		}
		if ok && d.ISO() != tc.want {
			t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, d.ISO(), tc.want)
		}
	}
}

func TestNormalizeDateNeverPanics(t *testing.T) {
	inputs := []any{nil, struct{}{}, []string{"x"}, -5.0, 0, time.Time{}}
	for i, in := range inputs {
		if _, ok := NormalizeDate(in); ok {
			t.Fatalf("case %d: expected unparseable for %v", i, in)
		}
	}
}

func TestNormalizeDateUTC(t *testing.T) {
	d, ok := NormalizeDate("2025-01-01")
	if !ok {
		t.Fatal("expected parseable")
	}
	if d.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", d.Location())
	}
	if d.ISO() != "2025-01-01" {
		t.Fatalf("local-timezone shift: got %s", d.ISO())
	}
}
