package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/nidra/internal/store"
)

// AlertHandler handles HTTP requests for alert history.
// Alerts are produced by the detection pipeline, so the API is read-only.
type AlertHandler struct {
	store *store.Store
}

// NewAlertHandler creates a new AlertHandler with the given store.
func NewAlertHandler(s *store.Store) *AlertHandler {
	return &AlertHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/alerts or /api/alerts/{id}
func (h *AlertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/alerts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}

	h.get(w, r, path)
}

// Response types

type alertResponse struct {
	ID            string  `json:"id"`
	SessionID     string  `json:"session_id"`
	Seq           int     `json:"seq"`
	RaisedAt      string  `json:"raised_at"`
	ClearedAt     string  `json:"cleared_at,omitempty"`
	PeakLowFrames int     `json:"peak_low_frames"`
	MinEAR        float64 `json:"min_ear"`
}

type listAlertsResponse struct {
	Alerts []alertResponse `json:"alerts"`
}

// list handles GET /api/alerts, optionally filtered by session or limited.
func (h *AlertHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		alerts []*store.Alert
		err    error
	)

	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		alerts, err = h.store.Alerts().ListBySession(sessionID)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		alerts, err = h.store.Alerts().ListRecent(limit)
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	response := listAlertsResponse{
		Alerts: make([]alertResponse, 0, len(alerts)),
	}
	for _, a := range alerts {
		response.Alerts = append(response.Alerts, toAlertResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/alerts/{id}.
func (h *AlertHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.store.Alerts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get alert")
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponse(a))
}

func toAlertResponse(a *store.Alert) alertResponse {
	resp := alertResponse{
		ID:            a.ID,
		SessionID:     a.SessionID,
		Seq:           a.Seq,
		RaisedAt:      a.RaisedAt.Format(time.RFC3339),
		PeakLowFrames: a.PeakLowFrames,
		MinEAR:        a.MinEAR,
	}
	if a.ClearedAt != nil {
		resp.ClearedAt = a.ClearedAt.Format(time.RFC3339)
	}
	return resp
}
