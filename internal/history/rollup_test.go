package history

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

func TestRollupSplitWeekAcrossMonths(t *testing.T) {
	// A week saved once plainly and once with an explicit December
	// override both resolve to 2025-12 and sum together.
	snaps := []core.WeeklySnapshot{
		snap(50, 2025, time.December, 2025, 10),
		snap(50, 2025, time.December, 2025, 5),
	}
	got := Rollup(snaps)
	dec := core.MonthKey{Year: 2025, Month: time.December}
	if got[dec].Endorsements != 15 {
		t.Fatalf("expected 15 endorsements for 2025-12, got %d", got[dec].Endorsements)
	}
}

func TestRollupCommutative(t *testing.T) {
	snaps := []core.WeeklySnapshot{
		snap(44, 2025, time.October, 2025, 488),
		snap(45, 2025, time.November, 2025, 489),
		snap(46, 2025, time.November, 2025, 397),
		snap(47, 2025, time.November, 2025, 426),
		snap(48, 2025, time.December, 2025, 310),
	}
	want := Rollup(snaps)

	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]core.WeeklySnapshot(nil), snaps...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := Rollup(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: rollup depends on insertion order", trial)
		}
	}
}

func TestMonthlyRowsDerivedMetrics(t *testing.T) {
	nov := core.WeeklySnapshot{Month: time.November, MonthYear: 2025, Endorsements: 400, Certificates: 300}
	dec := core.WeeklySnapshot{Month: time.December, MonthYear: 2025, Endorsements: 0, Certificates: 50}

	rows := MonthlyRows(Rollup([]core.WeeklySnapshot{nov, dec}))
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Month != "November 2025" || rows[1].Month != "December 2025" {
		t.Fatalf("bad order: %s, %s", rows[0].Month, rows[1].Month)
	}
	if rows[0].ProcessingRate != 75 || rows[0].NetFlow != 100 {
		t.Fatalf("november: %+v", rows[0])
	}
	// Zero endorsements must not be a division fault.
	if rows[1].ProcessingRate != 0 || rows[1].NetFlow != -50 {
		t.Fatalf("december: %+v", rows[1])
	}
}

func TestMonthlyRowsRounding(t *testing.T) {
	s := core.WeeklySnapshot{Month: time.May, MonthYear: 2025, Endorsements: 3, Certificates: 2}
	rows := MonthlyRows(Rollup([]core.WeeklySnapshot{s}))
	if rows[0].ProcessingRate != 67 { // 66.67 rounds up
		t.Fatalf("got %d", rows[0].ProcessingRate)
	}
}

func TestBacklogSeries(t *testing.T) {
	rows := []MonthlyRow{
		{Endorsements: 10, Certificates: 7},
		{Endorsements: 5, Certificates: 9},
		{Endorsements: 4, Certificates: 4},
	}
	got := BacklogSeries(rows)
	want := []int{-3, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
