package history

import (
	"reflect"
	"testing"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

func snap(week, year int, month time.Month, monthYear, endorsements int) core.WeeklySnapshot {
	return core.WeeklySnapshot{
		WeekNumber:   week,
		Year:         year,
		Month:        month,
		MonthYear:    monthYear,
		Endorsements: endorsements,
		SavedAt:      time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStorePutIdempotent(t *testing.T) {
	s := NewStore()
	v := snap(50, 2025, time.December, 2025, 10)

	s.Put("2025-W50", v)
	once := s.Entries()
	s.Put("2025-W50", v)
	twice := s.Entries()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("double put changed store state: %+v vs %+v", once, twice)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Len())
	}
}

func TestStoreConflictAndDelete(t *testing.T) {
	s := NewStore()
	if s.CheckConflict("2025-W50") {
		t.Fatal("empty store should have no conflict")
	}
	s.Put("2025-W50", snap(50, 2025, time.December, 2025, 10))
	if !s.CheckConflict("2025-W50") {
		t.Fatal("existing key should report a conflict")
	}

	s.Delete("2025-W50")
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	s.Delete("2025-W50") // absent key is a no-op
}

func TestStoreSnapshotsOrdered(t *testing.T) {
	s := NewStore()
	s.Put("2026-W2", snap(2, 2026, time.January, 2026, 1))
	s.Put("2025-W50", snap(50, 2025, time.December, 2025, 2))
	s.Put("2025-W44", snap(44, 2025, time.October, 2025, 3))

	got := s.Snapshots()
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	if got[0].WeekNumber != 44 || got[1].WeekNumber != 50 || got[2].WeekNumber != 2 {
		t.Fatalf("bad order: %d %d %d", got[0].WeekNumber, got[1].WeekNumber, got[2].WeekNumber)
	}
}

func TestResolveWeekYearBoundaryHeuristic(t *testing.T) {
	cases := []struct {
		week int
		now  time.Time
		want int
	}{
		// Week 50 entered in January belongs to the previous year.
		{50, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), 2025},
		{49, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 2025},
		// Week 1 entered in December belongs to the next year.
		{1, time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), 2026},
		{2, time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC), 2026},
		// Mid-year weeks keep the current year.
		{24, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), 2025},
		{50, time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC), 2025},
		{1, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), 2026},
	}
	for i, tc := range cases {
		if got := ResolveWeekYear(tc.week, tc.now); got != tc.want {
			t.Fatalf("case %d: got %d, want %d", i, got, tc.want)
		}
	}
}

func TestWeekMonday(t *testing.T) {
	cases := []struct {
		year, week int
		want       string
	}{
		{2025, 1, "2024-12-30"},
		{2025, 50, "2025-12-08"},
		{2026, 1, "2025-12-29"},
		{2024, 10, "2024-03-04"},
	}
	for i, tc := range cases {
		got := WeekMonday(tc.year, tc.week).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("case %d (%d-W%d): got %s, want %s", i, tc.year, tc.week, got, tc.want)
		}
	}
}

func TestResolveMonthKey(t *testing.T) {
	now := time.Date(2025, time.December, 12, 0, 0, 0, 0, time.UTC)

	// Week 50's Monday (2025-12-08) is in December.
	got := ResolveMonthKey(50, now, nil)
	if got != (core.MonthKey{Year: 2025, Month: time.December}) {
		t.Fatalf("got %+v", got)
	}

	// Explicit override is used verbatim.
	explicit := core.MonthKey{Year: 2026, Month: time.January}
	if got := ResolveMonthKey(50, now, &explicit); got != explicit {
		t.Fatalf("got %+v", got)
	}
}
