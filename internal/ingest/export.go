package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

// gridRowLabels mirror the import layout so a downloaded board re-imports
// cleanly.
var gridRowLabels = []string{
	"Endorsements to be issued",
	"Endorsements ready to be issued",
	"Weeks ahead/     SRA Exp.",
	"Endorsements received",
	"Applications / Cert per app",
	"Sending SRA",
	"Sending Endorsements",
	"Corrections",
}

// WriteWeeklyGrid encodes the current week back into the board's xlsx
// layout, with the correction notes appended as a trailing block when any
// exist.
func WriteWeeklyGrid(w core.WeeklyData) ([]byte, error) {
	w.Normalize()

	rows := [][]any{
		{"", "Crewing Board", "", "", "", "", ""},
		{"", "", "", "", "", "Week ", w.WeekNumber},
		{},
		{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", ""},
	}
	pick := []func(core.DailyCounters) any{
		func(c core.DailyCounters) any { return c.EndorsementsToBeIssued },
		func(c core.DailyCounters) any { return c.EndorsementsReadyToBeIssued },
		func(c core.DailyCounters) any { return c.WeeksAheadSRAExp },
		func(c core.DailyCounters) any { return c.EndorsementsReceived },
		func(c core.DailyCounters) any { return c.ApplicationsReceived },
		func(c core.DailyCounters) any { return c.SendingSRA },
		func(c core.DailyCounters) any { return c.SendingEndorsements },
		func(c core.DailyCounters) any { return c.Corrections },
	}
	for i, label := range gridRowLabels {
		row := []any{label}
		for _, day := range core.Weekdays() {
			row = append(row, pick[i](w.Days[day]))
		}
		rows = append(rows, row)
	}

	if len(w.CorrectionNotes) > 0 {
		rows = append(rows, []any{}, []any{"Correction Notes"})
		for i, note := range w.CorrectionNotes {
			status := "○ PENDING"
			if note.Completed {
				status = "✓ DONE"
			}
			rows = append(rows, []any{fmt.Sprintf("%d. %s", i+1, note.Text), status})
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell name for row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "F", 15); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
