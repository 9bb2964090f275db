package ingest

import (
	"strconv"
	"strings"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

// The weekly board workbook is a fixed-position grid: the week number sits
// at row 1, column 6, and rows 4..11 hold one field each with the five
// weekday values in columns 1..5. The layout is declared here in one place
// so a format change is a one-line edit.
const (
	gridWeekRow = 1
	gridWeekCol = 6
	gridDayCol0 = 1 // Monday's column
)

type gridField struct {
	row   int
	apply func(*core.DailyCounters, string)
}

var weeklyGrid = []gridField{
	{4, func(d *core.DailyCounters, v string) { d.EndorsementsToBeIssued = orDefault(v, "0/0") }},
	{5, func(d *core.DailyCounters, v string) { d.EndorsementsReadyToBeIssued = orDefault(v, "0/0") }},
	{6, func(d *core.DailyCounters, v string) { d.WeeksAheadSRAExp = orDefault(v, "0/0") }},
	{7, func(d *core.DailyCounters, v string) { d.EndorsementsReceived = orDefault(v, "0/0") }},
	{8, func(d *core.DailyCounters, v string) { d.ApplicationsReceived = orDefault(v, "0/0") }},
	{9, func(d *core.DailyCounters, v string) { d.SendingSRA = v }},
	{10, func(d *core.DailyCounters, v string) { d.SendingEndorsements = v }},
	{11, func(d *core.DailyCounters, v string) { d.Corrections = intOrZero(v) }},
}

// ImportWeeklyGrid reads a weekly board matrix into WeeklyData. Cells
// missing from the grid fall back to zero-filled defaults; an unreadable
// week number falls back to fallbackWeek.
func ImportWeeklyGrid(matrix [][]string, fallbackWeek int) core.WeeklyData {
	week := fallbackWeek
	if n := intOrZero(cellAt(matrix, gridWeekRow, gridWeekCol)); n > 0 {
		week = n
	}

	data := core.NewWeeklyData(week)
	for i, day := range core.Weekdays() {
		col := gridDayCol0 + i
		counters := core.DefaultDailyCounters()
		for _, f := range weeklyGrid {
			f.apply(&counters, cellAt(matrix, f.row, col))
		}
		data.Days[day] = counters
	}
	return data
}

func cellAt(matrix [][]string, row, col int) string {
	if row >= len(matrix) || col >= len(matrix[row]) {
		return ""
	}
	return strings.TrimSpace(matrix[row][col])
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrZero(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
