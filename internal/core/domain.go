package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

const (
	CertCOC  CertificateKind = "COC"
	CertGOC  CertificateKind = "GOC"
	CertCOP1 CertificateKind = "COP-1"
	CertCOP2 CertificateKind = "COP-2"
)

type (
	Weekday         string
	CertificateKind string

	// CertificateRef is one certificate number carried by a case row.
	CertificateRef struct {
		Kind  CertificateKind `json:"kind"`
		Value string          `json:"value"`
	}

	// CaseRecord is one row of the uploaded case file. Records are
	// immutable and replaced wholesale by the next upload.
	CaseRecord struct {
		SRAExpiry       Date             `json:"sraExpiry"`
		CertificateRefs []CertificateRef `json:"certificateRefs"`
		Paid            bool             `json:"paid"`
		Ship            string           `json:"ship"`
		Name            string           `json:"name"`
		InvoiceAddress  string           `json:"invoiceAddress"`
	}

	// DailyCounters is one weekday's manual entry. The pair counters keep
	// their raw "X/Y" text; ParsePair is applied when totals are needed.
	DailyCounters struct {
		EndorsementsToBeIssued      string `json:"endorsementsToBeIssued"`
		EndorsementsReadyToBeIssued string `json:"endorsementsReadyToBeIssued"`
		WeeksAheadSRAExp            string `json:"weeksAheadSRAExp"`
		EndorsementsReceived        string `json:"endorsementsReceived"`
		ApplicationsReceived        string `json:"applicationsReceived"`
		SendingSRA                  string `json:"sendingSRA"`
		SendingEndorsements         string `json:"sendingEndorsements"`
		Corrections                 int    `json:"corrections"`
	}

	CorrectionNote struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	}

	// WeeklyData is the current in-progress week. Days always holds
	// exactly one entry per weekday.
	WeeklyData struct {
		WeekNumber      int                       `json:"weekNumber"`
		Days            map[Weekday]DailyCounters `json:"days"`
		CorrectionNotes []CorrectionNote          `json:"correctionNotes"`
	}

	// WeekTotals are the summed pair counters of the week's five days.
	WeekTotals struct {
		Seafarers    int `json:"seafarers"`
		Endorsements int `json:"endorsements"`
		Applications int `json:"applications"`
		Certificates int `json:"certificates"`
	}

	// MonthKey identifies a calendar month.
	MonthKey struct {
		Year  int        `json:"year"`
		Month time.Month `json:"month"`
	}

	// OutstandingEntry is the per-month outstanding endorsement count
	// derived from the uploaded case records.
	OutstandingEntry struct {
		Month       string `json:"month"`
		Key         MonthKey
		AllCases    int `json:"allCases"`
		CanBeIssued int `json:"canBeIssued"`
	}

	// NextExpiring describes the soonest case expiring after today.
	NextExpiring struct {
		Date    string `json:"date"`
		Ship    string `json:"ship"`
		Name    string `json:"name"`
		Company string `json:"company"`
	}

	// WeeklySnapshot is a finalized week saved to history. Month and
	// MonthYear hold the resolved month the snapshot counts toward.
	WeeklySnapshot struct {
		WeekNumber   int        `json:"weekNumber"`
		Year         int        `json:"year"`
		Month        time.Month `json:"month"`
		MonthYear    int        `json:"monthYear"`
		Endorsements int        `json:"endorsements"`
		Seafarers    int        `json:"seafarers"`
		Certificates int        `json:"certificates"`
		SavedAt      time.Time  `json:"savedAt"`
	}
)

var (
	ErrUnparseableDate     = errors.New("unparseable date")
	ErrParseFailed         = errors.New("file could not be parsed")
	ErrSyncUnavailable     = errors.New("remote sync unavailable")
	ErrDuplicateHistoryKey = errors.New("weekly snapshot key already exists")
)

// Weekdays returns the five weekdays in board order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// CertificateKinds returns the certificate columns in case-file order.
func CertificateKinds() []CertificateKind {
	return []CertificateKind{CertCOC, CertGOC, CertCOP1, CertCOP2}
}

// NewWeeklyData creates a zero-filled week for the given week number.
func NewWeeklyData(weekNumber int) WeeklyData {
	days := make(map[Weekday]DailyCounters, 5)
	for _, d := range Weekdays() {
		days[d] = DefaultDailyCounters()
	}
	return WeeklyData{WeekNumber: weekNumber, Days: days}
}

// DefaultDailyCounters returns a weekday entry with zeroed pair counters.
func DefaultDailyCounters() DailyCounters {
	return DailyCounters{
		EndorsementsToBeIssued:      "0/0",
		EndorsementsReadyToBeIssued: "0/0",
		WeeksAheadSRAExp:            "0/0",
		EndorsementsReceived:        "0/0",
		ApplicationsReceived:        "0/0",
	}
}

// Normalize fills in any missing weekday so downstream code never has to
// check for absent days.
func (w *WeeklyData) Normalize() {
	if w.Days == nil {
		w.Days = make(map[Weekday]DailyCounters, 5)
	}
	for _, d := range Weekdays() {
		if _, ok := w.Days[d]; !ok {
			w.Days[d] = DefaultDailyCounters()
		}
	}
}

// Totals sums the endorsementsReceived and applicationsReceived pairs over
// the week. Malformed pair counters contribute zero; the strict parse
// result is surfaced elsewhere (edit-time validation), not here.
func (w WeeklyData) Totals() WeekTotals {
	var t WeekTotals
	for _, day := range Weekdays() {
		c := w.Days[day]
		if p, err := ParsePair(c.EndorsementsReceived); err == nil {
			t.Seafarers += p.A
			t.Endorsements += p.B
		}
		if p, err := ParsePair(c.ApplicationsReceived); err == nil {
			t.Applications += p.A
			t.Certificates += p.B
		}
	}
	return t
}

// Label renders the month as a full month name with a 4-digit year.
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String(), k.Year)
}

// Before reports whether k is an earlier calendar month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Key is the composite history key: "{year}-W{week}" for a plain weekly
// snapshot, with a "-{monthYear}-{month}" suffix when the snapshot was
// saved against an explicit month override.
func (s WeeklySnapshot) Key(explicitMonth bool) string {
	if explicitMonth {
		return fmt.Sprintf("%d-W%d-%d-%02d", s.Year, s.WeekNumber, s.MonthYear, int(s.Month))
	}
	return fmt.Sprintf("%d-W%d", s.Year, s.WeekNumber)
}
