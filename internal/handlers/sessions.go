package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/session"
)

// ListSessionsResponse is the body for GET /v1/sessions.
type ListSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

type SessionsHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewSessionsHandler(manager *session.Manager, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles directory-level operations
// Routes:
// GET    /v1/sessions - List active session ids
// DELETE /v1/sessions - Clear the session directory
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		ids, err := h.manager.ListSessions(r.Context())
		if err != nil {
			h.logger.Error("Failed to list sessions", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to list sessions")
			return
		}
		if ids == nil {
			ids = []string{}
		}
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(ListSessionsResponse{Sessions: ids}); err != nil {
			h.logger.Error("Failed to encode sessions response", "error", err)
		}

	case http.MethodDelete:
		if err := h.manager.ClearSessions(r.Context()); err != nil {
			h.logger.Error("Failed to clear sessions", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to clear sessions")
			return
		}
		h.logger.Info("Session directory cleared")
		w.WriteHeader(http.StatusNoContent)

	default:
		h.logger.Warn("Method not allowed for sessions endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
	}
}
