package ingest

import (
	"testing"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

func sampleWeek() core.WeeklyData {
	w := core.NewWeeklyData(46)
	w.Days[core.Monday] = core.DailyCounters{
		EndorsementsToBeIssued:      "3/5",
		EndorsementsReadyToBeIssued: "1/2",
		WeeksAheadSRAExp:            "2/1",
		EndorsementsReceived:        "10/25",
		ApplicationsReceived:        "4/8",
		SendingSRA:                  "Marta",
		SendingEndorsements:         "Rui",
		Corrections:                 2,
	}
	w.CorrectionNotes = []core.CorrectionNote{
		{ID: 1, Text: "resend week 45 batch", Completed: true},
		{ID: 2, Text: "fix COC typo for MV Alfa"},
	}
	return w
}

func TestImportWeeklyGrid(t *testing.T) {
	matrix := [][]string{
		{"", "Crewing Board"},
		{"", "", "", "", "", "Week ", "46"},
		{},
		{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		{"Endorsements to be issued", "3/5", "0/0", "", "0/0", "0/0"},
		{"Endorsements ready to be issued", "1/2", "0/0", "0/0", "0/0", "0/0"},
		{"Weeks ahead", "2/1", "0/0", "0/0", "0/0", "0/0"},
		{"Endorsements received", "10/25", "7/12", "0/0", "0/0", "0/0"},
		{"Applications", "4/8", "1/1", "0/0", "0/0", "0/0"},
		{"Sending SRA", "Marta", "", "", "", ""},
		{"Sending Endorsements", "Rui", "", "", "", ""},
		{"Corrections", "2", "", "0", "0", "0"},
	}

	w := ImportWeeklyGrid(matrix, 99)
	if w.WeekNumber != 46 {
		t.Fatalf("week number: got %d", w.WeekNumber)
	}
	mon := w.Days[core.Monday]
	if mon.EndorsementsReceived != "10/25" || mon.SendingSRA != "Marta" || mon.Corrections != 2 {
		t.Fatalf("monday: %+v", mon)
	}
	// Missing cells fall back to defaults.
	wed := w.Days[core.Wednesday]
	if wed.EndorsementsToBeIssued != "0/0" || wed.Corrections != 0 {
		t.Fatalf("wednesday defaults: %+v", wed)
	}
	if got := w.Totals(); got.Seafarers != 17 || got.Endorsements != 37 {
		t.Fatalf("totals: %+v", got)
	}
}

func TestImportWeeklyGridFallbackWeek(t *testing.T) {
	w := ImportWeeklyGrid([][]string{{"short"}}, 7)
	if w.WeekNumber != 7 {
		t.Fatalf("expected fallback week 7, got %d", w.WeekNumber)
	}
	if len(w.Days) != 5 {
		t.Fatalf("expected zero-filled week, got %d days", len(w.Days))
	}
}

func TestWeeklyGridRoundTrip(t *testing.T) {
	want := sampleWeek()

	data, err := WriteWeeklyGrid(want)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	matrix, err := WorkbookGrid(data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := ImportWeeklyGrid(matrix, 1)

	if got.WeekNumber != want.WeekNumber {
		t.Fatalf("week number: got %d, want %d", got.WeekNumber, want.WeekNumber)
	}
	for _, day := range core.Weekdays() {
		if got.Days[day] != want.Days[day] {
			t.Fatalf("%s: got %+v, want %+v", day, got.Days[day], want.Days[day])
		}
	}
}

func TestParseWorkbookUnreadable(t *testing.T) {
	if _, err := ParseWorkbook([]byte("this is not a zip archive")); err == nil {
		t.Fatal("expected error for unreadable workbook")
	}
}
