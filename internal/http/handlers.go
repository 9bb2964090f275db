package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/ingest"
)

// Uploaded files are small office documents; anything bigger is a mistake.
const maxUploadBytes = 16 << 20

// handleState returns the full dashboard state plus sync status.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		State    any    `json:"state"`
		Origin   string `json:"origin"`
		Degraded bool   `json:"degraded"`
	}{
		State:    s.sess.State(),
		Origin:   s.sess.Origin(),
		Degraded: s.sess.Degraded(),
	})
}

// handleReport returns the assembled report model.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.sess.Report(time.Now()))
}

func readUpload(r *http.Request) (data []byte, filename string, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return data, header.Filename, nil
}

// handleUploadCases ingests a case export and refreshes the derived
// aggregates.
func (s *Server) handleUploadCases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	data, filename, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := ingest.KindForFilename(filename)
	count, err := s.sess.UploadCases(data, kind, core.DateOf(time.Now()))
	if err != nil {
		slog.ErrorContext(r.Context(), "Case upload failed",
			"error", err, "filename", filename, "kind", kind)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Records int               `json:"records"`
		Kind    ingest.SourceKind `json:"kind"`
	}{Records: count, Kind: kind})
}

// handleUploadWeekly replaces the crewing board with an uploaded workbook.
func (s *Server) handleUploadWeekly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	data, filename, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.sess.ImportWeekly(data, time.Now()); err != nil {
		slog.ErrorContext(r.Context(), "Weekly board upload failed",
			"error", err, "filename", filename)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		WeekNumber int `json:"weekNumber"`
	}{WeekNumber: s.sess.State().WeeklyData.WeekNumber})
}

// handleCrewboardDay updates one field of one weekday.
func (s *Server) handleCrewboardDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w, "PUT, POST")
		return
	}
	var req struct {
		Day   core.Weekday `json:"day"`
		Field string       `json:"field"`
		Value string       `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.sess.UpdateDay(req.Day, req.Field, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleCrewboardWeek sets the running week number.
func (s *Server) handleCrewboardWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w, "PUT, POST")
		return
	}
	var req struct {
		WeekNumber int `json:"weekNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.sess.SetWeekNumber(req.WeekNumber); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleCrewboardReset starts a fresh week. Destructive, so the caller
// must send confirm=true.
func (s *Server) handleCrewboardReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "reset discards the current week; repeat with confirm=true")
		return
	}
	week := s.sess.ResetForNewWeek(time.Now())
	writeJSON(w, http.StatusOK, struct {
		WeekNumber int `json:"weekNumber"`
	}{WeekNumber: week.WeekNumber})
}

// handleCrewboardExport downloads the board as Week_NN.xlsx.
func (s *Server) handleCrewboardExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	data, err := s.sess.ExportWeekly()
	if err != nil {
		slog.ErrorContext(r.Context(), "Board export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	week := s.sess.State().WeeklyData.WeekNumber
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Week_%02d.xlsx"`, week))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleNotes adds a correction note.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	note, err := s.sess.AddCorrectionNote(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// handleNoteByID toggles (POST /notes/{id}/toggle) or deletes
// (DELETE /notes/{id}) a correction note.
func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/notes/")
	toggle := strings.HasSuffix(rest, "/toggle")
	idStr := strings.TrimSuffix(rest, "/toggle")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	switch {
	case toggle && r.Method == http.MethodPost:
		if !s.sess.ToggleCorrectionNote(id) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
	case !toggle && r.Method == http.MethodDelete:
		if !s.sess.DeleteCorrectionNote(id) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w, "POST, DELETE")
	}
}

// handleReportNotes replaces the editable report note templates.
func (s *Server) handleReportNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w, "PUT, POST")
		return
	}
	var req struct {
		Notes []string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.sess.SetReportNotes(req.Notes)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleNextSRA manually overrides the next-expiring entry; a null body
// clears it.
func (s *Server) handleNextSRA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		methodNotAllowed(w, "PUT, POST")
		return
	}
	var req *core.NextExpiring
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.sess.SetNextSRA(req)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleHistory lists (GET) or saves the running week into (POST) the
// snapshot ledger. Saving onto an existing key without confirmed=true
// answers 409 with the conflicting key.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.sess.History())
	case http.MethodPost:
		var req struct {
			MonthYear *int        `json:"monthYear"`
			Month     *time.Month `json:"month"`
			Confirmed bool        `json:"confirmed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		var explicit *core.MonthKey
		if req.MonthYear != nil && req.Month != nil {
			explicit = &core.MonthKey{Year: *req.MonthYear, Month: *req.Month}
		}

		snap, key, err := s.sess.SaveWeekToHistory(r.Context(), time.Now(), explicit, req.Confirmed)
		if errors.Is(err, core.ErrDuplicateHistoryKey) {
			writeJSON(w, http.StatusConflict, struct {
				Error string `json:"error"`
				Key   string `json:"key"`
			}{Error: err.Error(), Key: key})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Key      string              `json:"key"`
			Snapshot core.WeeklySnapshot `json:"snapshot"`
		}{Key: key, Snapshot: snap})
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleHistoryByKey deletes one snapshot (DELETE /history/{key}).
func (s *Server) handleHistoryByKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/history/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing snapshot key")
		return
	}
	if !s.sess.DeleteSnapshot(key) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
