package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/nidra/internal/store"
)

// SessionHandler handles HTTP requests for session history.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/sessions or /api/sessions/{id}
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}

	h.get(w, r, path)
}

// Response types

type sessionResponse struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Frames    int64  `json:"frames"`
	Alerts    int    `json:"alerts"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, sess := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(sess))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func toSessionResponse(sess *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        sess.ID,
		StartedAt: sess.StartedAt.Format(time.RFC3339),
		Frames:    sess.Frames,
		Alerts:    sess.Alerts,
	}
	if sess.EndedAt != nil {
		resp.EndedAt = sess.EndedAt.Format(time.RFC3339)
	}
	return resp
}
