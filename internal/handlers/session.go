package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// JoinRequest is the body for POST /v1/sessions/{id}/join.
type JoinRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// ActRequest is the body for POST /v1/sessions/{id}/act.
type ActRequest struct {
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`
}

type SessionHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewSessionHandler(manager *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles per-session operations
// Routes:
// POST /v1/sessions/{id}/join  - Join or rename a player
// POST /v1/sessions/{id}/act   - Submit a player action
// GET  /v1/sessions/{id}/state - Read roster, messages and combat state
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		h.logger.Warn("Invalid session path", "path", r.URL.Path)
		writeError(w, h.logger, http.StatusNotFound, "Expected /v1/sessions/{id}/{join|act|state}")
		return
	}
	sessionID, op := parts[0], parts[1]

	switch op {
	case "join":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use POST")
			return
		}
		h.handleJoin(w, r, sessionID)

	case "act":
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use POST")
			return
		}
		h.handleAct(w, r, sessionID)

	case "state":
		if r.Method != http.MethodGet {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use GET")
			return
		}
		h.handleState(w, r, sessionID)

	default:
		h.logger.Warn("Unknown session operation", "op", op)
		writeError(w, h.logger, http.StatusNotFound, "Unknown operation: "+op)
	}
}

func (h *SessionHandler) handleJoin(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in join request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.PlayerID = strings.TrimSpace(req.PlayerID)
	req.Name = strings.TrimSpace(req.Name)
	if req.PlayerID == "" || req.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "player_id and name are required")
		return
	}

	result, err := h.manager.Join(r.Context(), sessionID, req.PlayerID, req.Name)
	if err != nil {
		h.logger.Error("Failed to join session", "error", err, "session_id", sessionID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to join session")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode join response", "error", err)
	}
}

func (h *SessionHandler) handleAct(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req ActRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in act request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	req.PlayerID = strings.TrimSpace(req.PlayerID)
	req.Action = strings.TrimSpace(req.Action)
	if req.PlayerID == "" || req.Action == "" {
		writeError(w, h.logger, http.StatusBadRequest, "player_id and action are required")
		return
	}

	result, err := h.manager.Act(r.Context(), sessionID, req.PlayerID, req.Action)
	if err != nil {
		if errors.Is(err, session.ErrPlayerNotJoined) {
			h.logger.Warn("Action from unjoined player", "session_id", sessionID, "player_id", req.PlayerID)
			writeError(w, h.logger, http.StatusNotFound, "Player has not joined this session")
			return
		}
		h.logger.Error("Failed to process action", "error", err, "session_id", sessionID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process action")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode act response", "error", err)
	}
}

func (h *SessionHandler) handleState(w http.ResponseWriter, r *http.Request, sessionID string) {
	result, err := h.manager.State(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session state", "error", err, "session_id", sessionID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session state")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode state response", "error", err)
	}
}
