package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/soval/gemgrid/internal/api/apierr"
	"github.com/soval/gemgrid/internal/api/request"
	"github.com/soval/gemgrid/internal/api/response"
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/game"
	"github.com/soval/gemgrid/internal/sse"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	sessionController game.ControllerInterface
	hubManager        *sse.HubManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionController game.ControllerInterface, hubManager *sse.HubManager) *SessionHandler {
	return &SessionHandler{
		sessionController: sessionController,
		hubManager:        hubManager,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for default config
		req = request.CreateSessionRequest{}
	}

	cfg := model.DefaultBoardConfig()
	if req.Rows > 0 {
		cfg.Rows = req.Rows
	}
	if req.Cols > 0 {
		cfg.Cols = req.Cols
	}
	if req.MatchSize > 1 {
		cfg.MatchSize = req.MatchSize
	}
	if req.CanSpin != nil {
		cfg.CanSpin = *req.CanSpin
	}
	if req.Mode != "" {
		cfg.Mode = model.GameMode(req.Mode)
	}

	session, err := h.sessionController.CreateSession(r.Context(), cfg)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	session, err := h.sessionController.GetSession(r.Context(), sessionID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Move handles POST /api/v1/sessions/{id}/moves
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.sessionController.RequestMove(r.Context(), sessionID, req.From, req.To); err != nil {
		apierr.WriteError(w, err)
		return
	}

	// The cascade settles asynchronously; clients follow progress via
	// the session's event stream
	response.JSON(w, http.StatusAccepted, response.Move{Accepted: true})
}

// Hint handles GET /api/v1/sessions/{id}/hint
func (h *SessionHandler) Hint(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	swap, err := h.sessionController.Hint(r.Context(), sessionID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Hint{From: swap.From, To: swap.To})
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	summary, err := h.sessionController.EndSession(r.Context(), sessionID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if h.hubManager != nil {
		h.hubManager.RemoveHub(sessionID)
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}

// Summary handles GET /api/v1/sessions/{id}/summary
func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	summary, err := h.sessionController.GetSummary(r.Context(), sessionID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}

// Events handles GET /api/v1/sessions/{id}/events (SSE)
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(mux.Vars(r)["id"])

	if _, err := h.sessionController.GetSession(r.Context(), sessionID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(sessionID)
	sse.ServeSSE(w, r, hub)
}
