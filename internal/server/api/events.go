package api

import (
	"net/http"
	"strings"

	"github.com/naka6ryo/yubi-soccer/internal/store"
)

// EventsHandler handles HTTP requests for the session event log.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates an EventsHandler backed by the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// ServeHTTP routes event log requests.
// Path: /api/sessions/{id}/events
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, ok := strings.CutSuffix(path, "/events")
	if !ok || sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, sessionID)
	case http.MethodDelete:
		h.delete(w, r, sessionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type eventResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	T          float64 `json:"t"`
	CreatedAt  string  `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

// list handles GET /api/sessions/{id}/events.
func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request, sessionID string) {
	events, err := h.store.Events().ListBySession(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			ID:         e.ID,
			SessionID:  e.SessionID,
			Type:       e.Type,
			Confidence: e.Confidence,
			T:          e.T,
			CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/sessions/{id}/events.
func (h *EventsHandler) delete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.store.Events().DeleteBySession(sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete events")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
