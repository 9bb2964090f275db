// Package history keeps the append-only ledger of finalized weekly
// snapshots and derives the monthly rollup from it.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

// Store is a keyed map of weekly snapshots. Put replaces unconditionally:
// the overwrite-confirmation gate is a contract of the session layer,
// which must call CheckConflict first and obtain explicit confirmation
// before re-putting an existing key.
type Store struct {
	mu    sync.Mutex
	snaps map[string]core.WeeklySnapshot
}

func NewStore() *Store {
	return &Store{snaps: make(map[string]core.WeeklySnapshot)}
}

// CheckConflict reports whether the key is already present.
func (s *Store) CheckConflict(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.snaps[key]
	return ok
}

func (s *Store) Put(key string, snap core.WeeklySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[key] = snap
}

// Delete removes the entry; deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, key)
}

func (s *Store) Get(key string) (core.WeeklySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[key]
	return snap, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

// Snapshots returns all snapshots ordered by (year, week, saved-at) so
// trend views are stable across map iteration order.
func (s *Store) Snapshots() []core.WeeklySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.WeeklySnapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].WeekNumber != out[j].WeekNumber {
			return out[i].WeekNumber < out[j].WeekNumber
		}
		return out[i].SavedAt.Before(out[j].SavedAt)
	})
	return out
}

// Entries returns a copy of the underlying key→snapshot map, for
// persistence.
func (s *Store) Entries() map[string]core.WeeklySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]core.WeeklySnapshot, len(s.snaps))
	for k, v := range s.snaps {
		out[k] = v
	}
	return out
}

// Replace swaps the whole ledger, used when loading persisted state or
// applying a remote overwrite.
func (s *Store) Replace(entries map[string]core.WeeklySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = make(map[string]core.WeeklySnapshot, len(entries))
	for k, v := range entries {
		s.snaps[k] = v
	}
}

// ResolveWeekYear picks the calendar year a bare week ordinal belongs to.
// Week numbers near the year boundary are ambiguous without full ISO
// week-year context: week 49+ entered in January or February refers to the
// previous year, and week 1-2 entered in November or December refers to
// the next.
func ResolveWeekYear(week int, now time.Time) int {
	year := now.Year()
	switch m := now.Month(); {
	case week >= 49 && (m == time.January || m == time.February):
		year--
	case week <= 2 && (m == time.November || m == time.December):
		year++
	}
	return year
}

// WeekMonday returns the Monday of ISO-like week ordinal `week` in `year`.
// January 4th is always inside ISO week 1.
func WeekMonday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7
	}
	week1Monday := jan4.AddDate(0, 0, -(wd - 1))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// ResolveMonthKey resolves which calendar month a weekly snapshot counts
// toward. An explicit override is used verbatim; otherwise it is the month
// containing the week's Monday.
func ResolveMonthKey(week int, now time.Time, explicit *core.MonthKey) core.MonthKey {
	if explicit != nil {
		return *explicit
	}
	monday := WeekMonday(ResolveWeekYear(week, now), week)
	return core.MonthKey{Year: monday.Year(), Month: monday.Month()}
}
