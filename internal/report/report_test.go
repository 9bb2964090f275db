package report

import (
	"strings"
	"testing"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

func weekWith(monday core.DailyCounters) core.WeeklyData {
	w := core.NewWeeklyData(46)
	w.Days[core.Monday] = monday
	return w
}

func TestBuildSubstitutesNoteTokens(t *testing.T) {
	in := Input{
		Now: time.Date(2025, time.November, 14, 16, 0, 0, 0, time.UTC),
		Week: weekWith(core.DailyCounters{
			EndorsementsReceived: "3/5",
			ApplicationsReceived: "2/4",
		}),
	}
	m := Build(in)

	if m.GeneratedAt != "2025-11-14" {
		t.Fatalf("unexpected generatedAt %q", m.GeneratedAt)
	}
	if m.WeekNumber != 46 {
		t.Fatalf("unexpected week %d", m.WeekNumber)
	}
	if len(m.Notes) != 2 {
		t.Fatalf("expected 2 default notes, got %d", len(m.Notes))
	}
	if m.Notes[0] != "This week we received a total of 5 endorsements." {
		t.Fatalf("unexpected first note %q", m.Notes[0])
	}
	if !strings.Contains(m.Notes[1], "received 2 applications") || !strings.Contains(m.Notes[1], "submitted 4 certificates") {
		t.Fatalf("unexpected second note %q", m.Notes[1])
	}
}

func TestBuildCustomTemplates(t *testing.T) {
	in := Input{
		Now: time.Now(),
		Week: weekWith(core.DailyCounters{
			EndorsementsReceived: "1/7",
			ApplicationsReceived: "0/0",
		}),
		NoteTemplates: []string{"{endorsements} in, {certificates} out"},
	}
	m := Build(in)
	if len(m.Notes) != 1 || m.Notes[0] != "7 in, 0 out" {
		t.Fatalf("unexpected notes %v", m.Notes)
	}
}

func TestBuildRecentWeeksWindow(t *testing.T) {
	snaps := make([]core.WeeklySnapshot, 0, 6)
	for wk := 40; wk <= 45; wk++ {
		snaps = append(snaps, core.WeeklySnapshot{
			WeekNumber:   wk,
			Year:         2025,
			Month:        time.November,
			MonthYear:    2025,
			Endorsements: wk - 39, // 1..6
			Certificates: 1,
		})
	}
	in := Input{
		Now:       time.Now(),
		Week:      weekWith(core.DailyCounters{EndorsementsReceived: "4/10", ApplicationsReceived: "0/0"}),
		Snapshots: snaps,
	}
	m := Build(in)

	if len(m.RecentWeeks) != 4 {
		t.Fatalf("expected last 4 weeks, got %d", len(m.RecentWeeks))
	}
	if m.RecentWeeks[0].Label != "Week 42" || m.RecentWeeks[3].Label != "Week 45" {
		t.Fatalf("unexpected window: %+v", m.RecentWeeks)
	}
	// 3+4+5+6 from history plus 10 from the running week.
	if m.WeeklyTotal != 28 {
		t.Fatalf("expected weekly total 28, got %d", m.WeeklyTotal)
	}
	if len(m.Monthly) != 1 || m.Monthly[0].Endorsements != 21 || m.Monthly[0].Certificates != 6 {
		t.Fatalf("unexpected monthly rollup: %+v", m.Monthly)
	}
	if len(m.Backlog) != 1 || m.Backlog[0] != -15 {
		t.Fatalf("unexpected backlog series: %v", m.Backlog)
	}
}

func TestBuildOutstandingTotals(t *testing.T) {
	in := Input{
		Now:  time.Now(),
		Week: core.NewWeeklyData(1),
		Outstanding: []core.OutstandingEntry{
			{Month: "October 2025", AllCases: 3, CanBeIssued: 1},
			{Month: "November 2025", AllCases: 2, CanBeIssued: 2},
		},
		NextSRA: &core.NextExpiring{Date: "2025-11-20", Ship: "Aurora"},
	}
	m := Build(in)

	if m.OutstandingAllCases != 5 || m.OutstandingCanBeIssued != 3 {
		t.Fatalf("unexpected outstanding totals: %d/%d", m.OutstandingAllCases, m.OutstandingCanBeIssued)
	}
	if m.NextSRA == nil || m.NextSRA.Ship != "Aurora" {
		t.Fatalf("next expiring not carried: %+v", m.NextSRA)
	}
}
