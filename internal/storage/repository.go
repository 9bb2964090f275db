// Package storage persists the dashboard state and the weekly snapshot
// ledger in a local SQLite database. It is the "local cache" leg of the
// persistence model: always written, and the fallback when the remote
// sync boundary is unreachable.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"

	_ "modernc.org/sqlite"
)

// PersistedState is the durable shape of a dashboard session: the current
// week, the derived aggregates the user last computed, the snapshot
// ledger, and the editable report notes.
type PersistedState struct {
	WeeklyData     core.WeeklyData                    `json:"weeklyData"`
	OutstandingEnd []core.OutstandingEntry            `json:"outstandingEnd"`
	NextSRA        *core.NextExpiring                 `json:"nextSRA"`
	WeeklyHistory  map[string]core.WeeklySnapshot     `json:"weeklyHistory"`
	ReportNotes    []string                           `json:"reportNotes"`
	UpdatedAt      time.Time                          `json:"updatedAt"`
}

// statePayload is the JSON blob stored in the dashboard_state row; the
// snapshot ledger lives in its own table.
type statePayload struct {
	WeeklyData     core.WeeklyData         `json:"weeklyData"`
	OutstandingEnd []core.OutstandingEntry `json:"outstandingEnd"`
	NextSRA        *core.NextExpiring      `json:"nextSRA"`
	ReportNotes    []string                `json:"reportNotes"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveState writes the full persisted state in one transaction. The
// snapshot ledger is replaced wholesale; its size is a handful of rows
// per year, so the simplicity beats incremental upserts.
func (r *Repository) SaveState(ctx context.Context, ps PersistedState) error {
	payload, err := json.Marshal(statePayload{
		WeeklyData:     ps.WeeklyData,
		OutstandingEnd: ps.OutstandingEnd,
		NextSRA:        ps.NextSRA,
		ReportNotes:    ps.ReportNotes,
	})
	if err != nil {
		return fmt.Errorf("marshal state payload: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dashboard_state (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), ps.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert dashboard state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_snapshots`); err != nil {
		return fmt.Errorf("clear weekly snapshots: %w", err)
	}
	for key, snap := range ps.WeeklyHistory {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO weekly_snapshots
				(key, week_number, year, month, month_year, endorsements, seafarers, certificates, saved_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key, snap.WeekNumber, snap.Year, int(snap.Month), snap.MonthYear,
			snap.Endorsements, snap.Seafarers, snap.Certificates,
			snap.SavedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert snapshot %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Dashboard state persisted",
		"week", ps.WeeklyData.WeekNumber,
		"snapshots", len(ps.WeeklyHistory))
	return nil
}

// LoadState reads the persisted state; the second return is false when no
// state has ever been saved.
func (r *Repository) LoadState(ctx context.Context) (PersistedState, bool, error) {
	var (
		payload   string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, updated_at FROM dashboard_state WHERE id = 1`).
		Scan(&payload, &updatedAt)
	if err == sql.ErrNoRows {
		return PersistedState{}, false, nil
	}
	if err != nil {
		return PersistedState{}, false, fmt.Errorf("read dashboard state: %w", err)
	}

	var sp statePayload
	if err := json.Unmarshal([]byte(payload), &sp); err != nil {
		return PersistedState{}, false, fmt.Errorf("unmarshal state payload: %w", err)
	}

	ps := PersistedState{
		WeeklyData:     sp.WeeklyData,
		OutstandingEnd: sp.OutstandingEnd,
		NextSRA:        sp.NextSRA,
		ReportNotes:    sp.ReportNotes,
		WeeklyHistory:  make(map[string]core.WeeklySnapshot),
	}
	ps.WeeklyData.Normalize()
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		ps.UpdatedAt = t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT key, week_number, year, month, month_year, endorsements, seafarers, certificates, saved_at
		FROM weekly_snapshots`)
	if err != nil {
		return PersistedState{}, false, fmt.Errorf("read weekly snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key     string
			month   int
			savedAt string
			snap    core.WeeklySnapshot
		)
		if err := rows.Scan(&key, &snap.WeekNumber, &snap.Year, &month, &snap.MonthYear,
			&snap.Endorsements, &snap.Seafarers, &snap.Certificates, &savedAt); err != nil {
			return PersistedState{}, false, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Month = time.Month(month)
		if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
			snap.SavedAt = t
		}
		ps.WeeklyHistory[key] = snap
	}
	if err := rows.Err(); err != nil {
		return PersistedState{}, false, fmt.Errorf("iterate snapshots: %w", err)
	}

	return ps, true, nil
}
