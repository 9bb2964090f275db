// Package session owns the live dashboard state and every mutation to it.
// It layers the persistence model on top of the pure core: edits mutate
// memory first, a debounced writer flushes to local SQLite, and, when
// configured, each flush is broadcast to other dashboard instances with
// last-writer-wins semantics.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/history"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/ingest"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/report"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/storage"
)

// DefaultDebounce is the quiet period between the last edit and the
// persistence flush.
const DefaultDebounce = time.Second

const persistTimeout = 10 * time.Second

type (
	// Persister is the local durable store.
	Persister interface {
		SaveState(ctx context.Context, ps storage.PersistedState) error
	}

	// Notifier broadcasts state to other dashboard instances. Failures
	// degrade the session instead of failing the edit.
	Notifier interface {
		PublishState(ctx context.Context, origin string, ps storage.PersistedState) error
	}

	// Mirror appends finalized weekly snapshots to an external sheet.
	Mirror interface {
		AppendSnapshot(ctx context.Context, key string, snap core.WeeklySnapshot) error
	}

	Options struct {
		Local    Persister
		Notifier Notifier
		Mirror   Mirror
		Debounce time.Duration
	}

	// Session is safe for concurrent use by HTTP handlers and the remote
	// update consumer.
	Session struct {
		opts   Options
		origin string
		hist   *history.Store
		saver  *Debouncer

		mu          sync.Mutex
		week        core.WeeklyData
		outstanding []core.OutstandingEntry
		nextSRA     *core.NextExpiring
		notes       []string
		updatedAt   time.Time
		degraded    bool
		lastNoteID  int64
	}
)

func New(opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	_, wk := time.Now().UTC().ISOWeek()
	s := &Session{
		opts:   opts,
		origin: newOriginID(),
		hist:   history.NewStore(),
		week:   core.NewWeeklyData(wk),
		notes:  report.DefaultNoteTemplates(),
	}
	s.saver = NewDebouncer(opts.Debounce, s.persist)
	return s
}

func newOriginID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("origin-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// Origin identifies this instance in broadcast messages so it can drop
// its own echoes.
func (s *Session) Origin() string { return s.origin }

// Degraded reports whether the last remote interaction failed. Local
// persistence keeps working regardless.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Load replaces the in-memory state with a previously persisted one,
// without scheduling a write-back.
func (s *Session) Load(ps storage.PersistedState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ps)
}

func (s *Session) applyLocked(ps storage.PersistedState) {
	ps.WeeklyData.Normalize()
	s.week = ps.WeeklyData
	s.outstanding = ps.OutstandingEnd
	s.nextSRA = ps.NextSRA
	s.notes = ps.ReportNotes
	if len(s.notes) == 0 {
		s.notes = report.DefaultNoteTemplates()
	}
	s.updatedAt = ps.UpdatedAt
	s.hist.Replace(ps.WeeklyHistory)
	for _, n := range s.week.CorrectionNotes {
		if n.ID > s.lastNoteID {
			s.lastNoteID = n.ID
		}
	}
}

// State returns a deep copy of the current persisted-shape state.
func (s *Session) State() storage.PersistedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() storage.PersistedState {
	week := s.week
	week.Days = make(map[core.Weekday]core.DailyCounters, len(s.week.Days))
	for k, v := range s.week.Days {
		week.Days[k] = v
	}
	week.CorrectionNotes = append([]core.CorrectionNote(nil), s.week.CorrectionNotes...)

	return storage.PersistedState{
		WeeklyData:     week,
		OutstandingEnd: append([]core.OutstandingEntry(nil), s.outstanding...),
		NextSRA:        s.nextSRA,
		WeeklyHistory:  s.hist.Entries(),
		ReportNotes:    append([]string(nil), s.notes...),
		UpdatedAt:      s.updatedAt,
	}
}

func (s *Session) markDirtyLocked() {
	s.updatedAt = time.Now().UTC()
	s.saver.Trigger()
}

// UploadCases parses a case file and recomputes the outstanding-by-month
// table and the next expiring SRA. A parse failure leaves the previous
// aggregates untouched.
func (s *Session) UploadCases(data []byte, kind ingest.SourceKind, today core.Date) (int, error) {
	rows, err := ingest.ParseSource(data, kind)
	if err != nil {
		return 0, err
	}
	records := ingest.BindCases(rows)
	outstanding := core.OutstandingByMonth(records)
	next, hasNext := core.FindNextExpiring(records, today)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outstanding = outstanding
	if hasNext {
		s.nextSRA = &next
	} else {
		s.nextSRA = nil
	}
	s.markDirtyLocked()
	slog.Info("Case file processed", "records", len(records), "months", len(outstanding))
	return len(records), nil
}

// ImportWeekly replaces the current week with the contents of an uploaded
// board workbook. Correction notes are kept; they are tracked by hand, not
// by the board grid.
func (s *Session) ImportWeekly(data []byte, now time.Time) error {
	matrix, err := ingest.WorkbookGrid(data)
	if err != nil {
		return err
	}
	_, fallback := now.UTC().ISOWeek()
	imported := ingest.ImportWeeklyGrid(matrix, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	imported.CorrectionNotes = s.week.CorrectionNotes
	s.week = imported
	s.markDirtyLocked()
	slog.Info("Weekly board imported", "week", imported.WeekNumber)
	return nil
}

// ExportWeekly renders the current week as a board workbook.
func (s *Session) ExportWeekly() ([]byte, error) {
	s.mu.Lock()
	week := s.stateLocked().WeeklyData
	s.mu.Unlock()
	return ingest.WriteWeeklyGrid(week)
}

// dayFieldSetters maps the editable field names of a weekday entry. Pair
// counters keep their raw text; validation happens at display time.
var dayFieldSetters = map[string]func(*core.DailyCounters, string){
	"endorsementsToBeIssued":      func(c *core.DailyCounters, v string) { c.EndorsementsToBeIssued = v },
	"endorsementsReadyToBeIssued": func(c *core.DailyCounters, v string) { c.EndorsementsReadyToBeIssued = v },
	"weeksAheadSRAExp":            func(c *core.DailyCounters, v string) { c.WeeksAheadSRAExp = v },
	"endorsementsReceived":        func(c *core.DailyCounters, v string) { c.EndorsementsReceived = v },
	"applicationsReceived":        func(c *core.DailyCounters, v string) { c.ApplicationsReceived = v },
	"sendingSRA":                  func(c *core.DailyCounters, v string) { c.SendingSRA = v },
	"sendingEndorsements":         func(c *core.DailyCounters, v string) { c.SendingEndorsements = v },
	"corrections":                 func(c *core.DailyCounters, v string) { c.Corrections = intOrZero(v) },
}

func intOrZero(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

// UpdateDay sets one field of one weekday's counters.
func (s *Session) UpdateDay(day core.Weekday, field, value string) error {
	set, ok := dayFieldSetters[field]
	if !ok {
		return fmt.Errorf("unknown day field %q", field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	counters, ok := s.week.Days[day]
	if !ok {
		return fmt.Errorf("unknown weekday %q", day)
	}
	set(&counters, value)
	s.week.Days[day] = counters
	s.markDirtyLocked()
	return nil
}

// SetWeekNumber updates the running week's ordinal.
func (s *Session) SetWeekNumber(n int) error {
	if n < 1 || n > 53 {
		return fmt.Errorf("week number %d out of range 1..53", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week.WeekNumber = n
	s.markDirtyLocked()
	return nil
}

// AddCorrectionNote appends a pending correction note.
func (s *Session) AddCorrectionNote(text string) (core.CorrectionNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.CorrectionNote{}, errors.New("correction note text is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastNoteID {
		id = s.lastNoteID + 1
	}
	s.lastNoteID = id
	note := core.CorrectionNote{ID: id, Text: text}
	s.week.CorrectionNotes = append(s.week.CorrectionNotes, note)
	s.markDirtyLocked()
	return note, nil
}

// ToggleCorrectionNote flips a note's completed flag. Returns false when
// the id is unknown.
func (s *Session) ToggleCorrectionNote(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.week.CorrectionNotes {
		if s.week.CorrectionNotes[i].ID == id {
			s.week.CorrectionNotes[i].Completed = !s.week.CorrectionNotes[i].Completed
			s.markDirtyLocked()
			return true
		}
	}
	return false
}

// DeleteCorrectionNote removes a note. Returns false when the id is
// unknown.
func (s *Session) DeleteCorrectionNote(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.week.CorrectionNotes {
		if s.week.CorrectionNotes[i].ID == id {
			s.week.CorrectionNotes = append(s.week.CorrectionNotes[:i], s.week.CorrectionNotes[i+1:]...)
			s.markDirtyLocked()
			return true
		}
	}
	return false
}

// SetReportNotes replaces the editable report note templates.
func (s *Session) SetReportNotes(notes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]string(nil), notes...)
	if len(s.notes) == 0 {
		s.notes = report.DefaultNoteTemplates()
	}
	s.markDirtyLocked()
}

// SetNextSRA manually overrides the next-expiring entry; nil clears it.
func (s *Session) SetNextSRA(next *core.NextExpiring) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSRA = next
	s.markDirtyLocked()
}

// ResetForNewWeek discards the running week and the upload-derived
// aggregates, starting a zeroed board at the current calendar week. The
// snapshot ledger and report note templates survive. Confirmation is the
// calling layer's responsibility.
func (s *Session) ResetForNewWeek(now time.Time) core.WeeklyData {
	_, wk := now.UTC().ISOWeek()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = core.NewWeeklyData(wk)
	s.outstanding = nil
	s.nextSRA = nil
	s.markDirtyLocked()
	slog.Info("Week reset", "week", wk)
	return s.week
}

// SaveWeekToHistory finalizes the running week into the snapshot ledger.
// Without confirmed set, saving onto an existing key fails with
// core.ErrDuplicateHistoryKey so the caller can ask the user; with it, the
// existing snapshot is overwritten.
func (s *Session) SaveWeekToHistory(ctx context.Context, now time.Time, explicit *core.MonthKey, confirmed bool) (core.WeeklySnapshot, string, error) {
	s.mu.Lock()
	totals := s.week.Totals()
	weekNumber := s.week.WeekNumber
	s.mu.Unlock()

	monthKey := history.ResolveMonthKey(weekNumber, now, explicit)
	snap := core.WeeklySnapshot{
		WeekNumber:   weekNumber,
		Year:         history.ResolveWeekYear(weekNumber, now),
		Month:        monthKey.Month,
		MonthYear:    monthKey.Year,
		Endorsements: totals.Endorsements,
		Seafarers:    totals.Seafarers,
		Certificates: totals.Certificates,
		SavedAt:      now.UTC(),
	}
	key := snap.Key(explicit != nil)

	if !confirmed && s.hist.CheckConflict(key) {
		return core.WeeklySnapshot{}, key, fmt.Errorf("%w: %s", core.ErrDuplicateHistoryKey, key)
	}
	s.hist.Put(key, snap)

	s.mu.Lock()
	s.markDirtyLocked()
	s.mu.Unlock()

	if s.opts.Mirror != nil {
		if err := s.opts.Mirror.AppendSnapshot(ctx, key, snap); err != nil {
			s.setDegraded(true)
			slog.WarnContext(ctx, "Snapshot mirror append failed",
				"key", key, "error", fmt.Errorf("%w: %v", core.ErrSyncUnavailable, err))
		} else {
			s.setDegraded(false)
		}
	}

	slog.InfoContext(ctx, "Week saved to history",
		"key", key, "endorsements", snap.Endorsements, "certificates", snap.Certificates)
	return snap, key, nil
}

// DeleteSnapshot removes a finalized week from the ledger. Returns false
// when the key is unknown.
func (s *Session) DeleteSnapshot(key string) bool {
	if _, ok := s.hist.Get(key); !ok {
		return false
	}
	s.hist.Delete(key)
	s.mu.Lock()
	s.markDirtyLocked()
	s.mu.Unlock()
	return true
}

// History returns the snapshot ledger in stable order.
func (s *Session) History() []core.WeeklySnapshot {
	return s.hist.Snapshots()
}

// Report assembles the report model for the current state.
func (s *Session) Report(now time.Time) report.Model {
	s.mu.Lock()
	in := report.Input{
		Now:           now,
		Week:          s.stateLocked().WeeklyData,
		NextSRA:       s.nextSRA,
		Outstanding:   append([]core.OutstandingEntry(nil), s.outstanding...),
		NoteTemplates: append([]string(nil), s.notes...),
	}
	s.mu.Unlock()
	in.Snapshots = s.hist.Snapshots()
	return report.Build(in)
}

// ApplyRemote overwrites local state with a broadcast from another
// instance. Echoes of our own broadcasts and states older than what we
// already have are dropped; otherwise the newest writer wins wholesale,
// including the snapshot ledger.
func (s *Session) ApplyRemote(ctx context.Context, origin string, ps storage.PersistedState) bool {
	if origin == s.origin {
		return false
	}

	s.mu.Lock()
	if !ps.UpdatedAt.After(s.updatedAt) {
		s.mu.Unlock()
		slog.DebugContext(ctx, "Remote state ignored as stale",
			"origin", origin, "remoteUpdatedAt", ps.UpdatedAt)
		return false
	}
	s.applyLocked(ps)
	s.mu.Unlock()

	// Persist the adopted state locally, without re-broadcasting it.
	if s.opts.Local != nil {
		if err := s.opts.Local.SaveState(ctx, ps); err != nil {
			slog.ErrorContext(ctx, "Persisting remote state failed", "error", err)
		}
	}
	slog.InfoContext(ctx, "Remote state applied", "origin", origin, "updatedAt", ps.UpdatedAt)
	return true
}

// Flush forces any pending debounced write, used on shutdown.
func (s *Session) Flush() {
	s.saver.Flush()
}

// Close stops the debounced writer after a final flush.
func (s *Session) Close() {
	s.saver.Flush()
	s.saver.Stop()
}

// persist is the debounced flush: local SQLite always, broadcast when a
// notifier is configured. Remote failure marks the session degraded but
// never rolls back the edit.
func (s *Session) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	ps := s.State()
	if s.opts.Local != nil {
		if err := s.opts.Local.SaveState(ctx, ps); err != nil {
			slog.ErrorContext(ctx, "Local state save failed", "error", err)
		}
	}
	if s.opts.Notifier == nil {
		return
	}
	if err := s.opts.Notifier.PublishState(ctx, s.origin, ps); err != nil {
		s.setDegraded(true)
		slog.WarnContext(ctx, "State broadcast failed",
			"error", fmt.Errorf("%w: %v", core.ErrSyncUnavailable, err))
		return
	}
	s.setDegraded(false)
}

func (s *Session) setDegraded(v bool) {
	s.mu.Lock()
	s.degraded = v
	s.mu.Unlock()
}
