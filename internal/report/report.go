// Package report assembles the weekly status report model. It performs no
// aggregation of its own: placeholder substitution in the note templates
// and summation of already-derived numbers is all that happens here.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/history"
)

type (
	// Input carries everything the report needs, pre-derived.
	Input struct {
		Now           time.Time
		Week          core.WeeklyData
		NextSRA       *core.NextExpiring
		Outstanding   []core.OutstandingEntry
		Snapshots     []core.WeeklySnapshot
		NoteTemplates []string
	}

	// WeekRow is one prior week in the received-endorsements table.
	WeekRow struct {
		Label        string `json:"label"`
		Endorsements int    `json:"endorsements"`
	}

	// Model is the immutable structure handed to the rendering layer.
	Model struct {
		GeneratedAt            string                  `json:"generatedAt"`
		WeekNumber             int                     `json:"weekNumber"`
		Totals                 core.WeekTotals         `json:"totals"`
		RecentWeeks            []WeekRow               `json:"recentWeeks"`
		WeeklyTotal            int                     `json:"weeklyTotal"`
		Notes                  []string                `json:"notes"`
		NextSRA                *core.NextExpiring      `json:"nextSRA,omitempty"`
		Outstanding            []core.OutstandingEntry `json:"outstanding"`
		OutstandingAllCases    int                     `json:"outstandingAllCases"`
		OutstandingCanBeIssued int                     `json:"outstandingCanBeIssued"`
		Monthly                []history.MonthlyRow    `json:"monthly"`
		Backlog                []int                   `json:"backlog"`
	}
)

// DefaultNoteTemplates are the report's stock notes; users may edit them,
// and the {endorsements}, {applications} and {certificates} tokens are
// substituted with the current week's totals at build time.
func DefaultNoteTemplates() []string {
	return []string{
		"This week we received a total of {endorsements} endorsements.",
		"This week we received {applications} applications - we have submitted {certificates} certificates.",
	}
}

// Build assembles the report model.
func Build(in Input) Model {
	totals := in.Week.Totals()

	// Last four saved weeks plus the running week make the received table.
	recent := in.Snapshots
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}
	weeklyTotal := totals.Endorsements
	weekRows := make([]WeekRow, 0, len(recent))
	for _, s := range recent {
		weekRows = append(weekRows, WeekRow{
			Label:        "Week " + strconv.Itoa(s.WeekNumber),
			Endorsements: s.Endorsements,
		})
		weeklyTotal += s.Endorsements
	}

	replacer := strings.NewReplacer(
		"{endorsements}", strconv.Itoa(totals.Endorsements),
		"{applications}", strconv.Itoa(totals.Applications),
		"{certificates}", strconv.Itoa(totals.Certificates),
	)
	templates := in.NoteTemplates
	if len(templates) == 0 {
		templates = DefaultNoteTemplates()
	}
	notes := make([]string, len(templates))
	for i, tpl := range templates {
		notes[i] = replacer.Replace(tpl)
	}

	m := Model{
		GeneratedAt: in.Now.UTC().Format("2006-01-02"),
		WeekNumber:  in.Week.WeekNumber,
		Totals:      totals,
		RecentWeeks: weekRows,
		WeeklyTotal: weeklyTotal,
		Notes:       notes,
		NextSRA:     in.NextSRA,
		Outstanding: in.Outstanding,
	}
	for _, e := range in.Outstanding {
		m.OutstandingAllCases += e.AllCases
		m.OutstandingCanBeIssued += e.CanBeIssued
	}
	rows := history.MonthlyRows(history.Rollup(in.Snapshots))
	m.Monthly = rows
	m.Backlog = history.BacklogSeries(rows)
	return m
}
