// Package mirror appends finalized weekly snapshots to a Google Sheet so
// the wider team can see the history without running the dashboard. The
// sheet is a write-only mirror: the SQLite ledger stays authoritative and
// a mirror failure only degrades the session.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

type Config struct {
	SpreadsheetID string
	SheetName     string
	// One of the three credential sources; checked in this order.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Weekly History"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, either inline JSON or a file path (GOOGLE_APPLICATION_CREDENTIALS
// works as the file fallback).
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(cfg.CredentialsJSON))
	if len(credentialsJSON) == 0 {
		file := strings.TrimSpace(cfg.CredentialsFile)
		if file == "" {
			file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
		if file == "" {
			return nil, errors.New("missing service account credentials")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets mirror ready", "sheet", cfg.SheetName)
	return service, nil
}

// AppendSnapshot appends one finalized week as a row. Satisfies the
// session mirror contract; any failure is surfaced as ErrSyncUnavailable
// so callers treat it as a degradation, not a fault.
func (c *Client) AppendSnapshot(ctx context.Context, key string, snap core.WeeklySnapshot) error {
	if c.svc == nil {
		return fmt.Errorf("%w: sheets service not initialized", core.ErrSyncUnavailable)
	}

	month := core.MonthKey{Year: snap.MonthYear, Month: snap.Month}
	vr := &gsheet.ValueRange{Values: [][]any{{
		key,
		snap.WeekNumber,
		snap.Year,
		month.Label(),
		snap.Endorsements,
		snap.Seafarers,
		snap.Certificates,
		snap.SavedAt.UTC().Format(time.RFC3339),
	}}}

	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append to sheet %s: %v", core.ErrSyncUnavailable, c.sheetName, err)
	}

	slog.InfoContext(ctx, "Snapshot mirrored", "key", key, "sheet", c.sheetName)
	return nil
}
