package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ItemListResponse wraps a page of mirrored items
type ItemListResponse struct {
	Items []domain.InventoryItem `json:"items"`
	Count int                    `json:"count"`
}

// TriggerResponse reports the outcome of a manual sync trigger
type TriggerResponse struct {
	Status string             `json:"status"`
	Report *domain.SyncReport `json:"report,omitempty"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Mirror read endpoints

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status domain.ItemStatus
	if raw := q.Get("status"); raw != "" {
		status = domain.ParseItemStatus(raw)
	}
	limit := intParam(q.Get("limit"), 0)
	offset := intParam(q.Get("offset"), 0)

	items, err := s.mirror.ListItems(r.Context(), status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Count: len(items)})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := s.mirror.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("failed to get item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Sync endpoints

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.mirror.Status(r.Context())
	if err != nil {
		s.logger.Error("failed to read sync status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read sync status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleTriggerSync starts a sync run. The run continues in the background;
// the handler waits triggerWait for an immediate refusal (another run in
// progress, fatal configuration error) and otherwise reports it as started.
func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	opts := driving.RunOptions{Resume: true}
	if boolParam(r.URL.Query().Get("full")) {
		opts.ForceFull = true
	}
	if boolParam(r.URL.Query().Get("no_resume")) {
		opts.Resume = false
	}

	type outcome struct {
		report *domain.SyncReport
		err    error
	}
	done := make(chan outcome, 1)

	// The run must outlive the request.
	runCtx := context.WithoutCancel(r.Context())
	go func() {
		report, err := s.syncRunner.Run(runCtx, opts)
		if err != nil {
			s.logger.Error("triggered sync failed", "error", err)
		}
		done <- outcome{report: report, err: err}
	}()

	select {
	case out := <-done:
		switch {
		case errors.Is(out.err, domain.ErrSyncInProgress):
			writeError(w, http.StatusConflict, "sync already in progress")
		case out.err != nil:
			writeError(w, http.StatusInternalServerError, "sync failed")
		default:
			writeJSON(w, http.StatusOK, TriggerResponse{Status: "completed", Report: out.report})
		}
	case <-time.After(s.triggerWait):
		writeJSON(w, http.StatusAccepted, TriggerResponse{Status: "started"})
	}
}

// Helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func boolParam(raw string) bool {
	return raw == "1" || raw == "true"
}
