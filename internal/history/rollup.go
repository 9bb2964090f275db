package history

import (
	"math"
	"sort"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

type (
	// MonthlyAggregate is the accumulated metrics for one calendar
	// month, fully derived from the snapshot ledger.
	MonthlyAggregate struct {
		Endorsements int `json:"endorsements"`
		Certificates int `json:"certificates"`
	}

	// MonthlyRow is one month of the rollup with its derived rates.
	MonthlyRow struct {
		Key            core.MonthKey `json:"key"`
		Month          string        `json:"month"`
		Endorsements   int           `json:"endorsements"`
		Certificates   int           `json:"certificates"`
		ProcessingRate int           `json:"processingRate"`
		NetFlow        int           `json:"netFlow"`
	}
)

// Rollup groups snapshots by their resolved month and sums endorsements
// and certificates. Grouping ignores which week or key variant a snapshot
// came from, so a week split across two explicit months contributes to
// each independently. Insertion order does not matter.
func Rollup(snaps []core.WeeklySnapshot) map[core.MonthKey]MonthlyAggregate {
	out := make(map[core.MonthKey]MonthlyAggregate)
	for _, s := range snaps {
		key := core.MonthKey{Year: s.MonthYear, Month: s.Month}
		agg := out[key]
		agg.Endorsements += s.Endorsements
		agg.Certificates += s.Certificates
		out[key] = agg
	}
	return out
}

// MonthlyRows flattens a rollup into ascending month order with the
// derived per-month metrics: processing rate as a rounded percentage
// (0 when no endorsements came in, not a division fault) and net flow as
// endorsements minus certificates.
func MonthlyRows(rollup map[core.MonthKey]MonthlyAggregate) []MonthlyRow {
	rows := make([]MonthlyRow, 0, len(rollup))
	for key, agg := range rollup {
		rate := 0
		if agg.Endorsements != 0 {
			rate = int(math.Round(float64(agg.Certificates) / float64(agg.Endorsements) * 100))
		}
		rows = append(rows, MonthlyRow{
			Key:            key,
			Month:          key.Label(),
			Endorsements:   agg.Endorsements,
			Certificates:   agg.Certificates,
			ProcessingRate: rate,
			NetFlow:        agg.Endorsements - agg.Certificates,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key.Before(rows[j].Key) })
	return rows
}

// BacklogSeries derives the accumulating-backlog ordering used by trend
// charts: each point adds the month's certificates-minus-endorsements
// delta to the previous point.
func BacklogSeries(rows []MonthlyRow) []int {
	series := make([]int, len(rows))
	backlog := 0
	for i, row := range rows {
		backlog += row.Certificates - row.Endorsements
		series[i] = backlog
	}
	return series
}
