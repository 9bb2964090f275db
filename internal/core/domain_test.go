package core

import (
	"testing"
	"time"
)

func TestNewWeeklyDataZeroFilled(t *testing.T) {
	w := NewWeeklyData(46)
	if w.WeekNumber != 46 {
		t.Fatalf("week number: got %d", w.WeekNumber)
	}
	if len(w.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(w.Days))
	}
	for _, d := range Weekdays() {
		c, ok := w.Days[d]
		if !ok {
			t.Fatalf("missing weekday %s", d)
		}
		if c.EndorsementsReceived != "0/0" || c.Corrections != 0 {
			t.Fatalf("weekday %s not zero-filled: %+v", d, c)
		}
	}
}

func TestWeeklyDataNormalize(t *testing.T) {
	w := WeeklyData{WeekNumber: 3}
	w.Normalize()
	if len(w.Days) != 5 {
		t.Fatalf("expected 5 days after Normalize, got %d", len(w.Days))
	}

	// Existing entries are kept.
	w.Days[Monday] = DailyCounters{EndorsementsReceived: "4/9"}
	w.Normalize()
	if w.Days[Monday].EndorsementsReceived != "4/9" {
		t.Fatal("Normalize overwrote an existing weekday")
	}
}

func TestWeeklyTotals(t *testing.T) {
	w := NewWeeklyData(10)
	w.Days[Monday] = DailyCounters{EndorsementsReceived: "2/5", ApplicationsReceived: "1/3"}
	w.Days[Tuesday] = DailyCounters{EndorsementsReceived: "3/7", ApplicationsReceived: "2/2"}
	w.Days[Wednesday] = DailyCounters{EndorsementsReceived: "garbage", ApplicationsReceived: "0/0"}

	got := w.Totals()
	want := WeekTotals{Seafarers: 5, Endorsements: 12, Applications: 3, Certificates: 5}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMonthKeyLabel(t *testing.T) {
	cases := []struct {
		key  MonthKey
		want string
	}{
		{MonthKey{2025, time.November}, "November 2025"},
		{MonthKey{2026, time.January}, "January 2026"},
	}
	for i, tc := range cases {
		if got := tc.key.Label(); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestSnapshotKey(t *testing.T) {
	s := WeeklySnapshot{WeekNumber: 50, Year: 2025, Month: time.December, MonthYear: 2025}
	if got := s.Key(false); got != "2025-W50" {
		t.Fatalf("plain key: got %q", got)
	}
	if got := s.Key(true); got != "2025-W50-2025-12" {
		t.Fatalf("override key: got %q", got)
	}
}
