package handler

import (
	"net/http"

	"manifesto-reader/internal/domain"
	apperrors "manifesto-reader/pkg/errors"

	"github.com/gorilla/mux"
)

// SessionHandler exposes viewer sessions: search, navigation and visibility.
type SessionHandler struct {
	sessionService domain.SessionService
	logger         domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService domain.SessionService, logger domain.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

type createSessionRequest struct {
	ReaderID string `json:"reader_id"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type gotoRequest struct {
	Index *int `json:"index"`
}

type visibilityRequest struct {
	Events []domain.VisibilityEvent `json:"events"`
}

// CreateSession opens a viewer session.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	info, err := h.sessionService.Create(r.Context(), req.ReaderID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// CloseSession discards a viewer session.
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Close(mux.Vars(r)["id"]); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSearch returns the session's search state.
func (h *SessionHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	h.respondSearch(w, func(id string) (*domain.SearchState, error) {
		return h.sessionService.SearchState(id)
	}, r)
}

// Search runs a query. The client debounces keystrokes before calling this.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	h.respondSearch(w, func(id string) (*domain.SearchState, error) {
		return h.sessionService.Search(id, req.Query)
	}, r)
}

// ClearSearch closes the session's search.
func (h *SessionHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	h.respondSearch(w, h.sessionService.ClearSearch, r)
}

// Next activates the following match.
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respondSearch(w, h.sessionService.Next, r)
}

// Previous activates the preceding match.
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.respondSearch(w, h.sessionService.Previous, r)
}

// Goto activates the match at the given index.
func (h *SessionHandler) Goto(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if req.Index == nil {
		writeAppError(w, h.logger, apperrors.NewValidationError("index is required", nil))
		return
	}
	h.respondSearch(w, func(id string) (*domain.SearchState, error) {
		return h.sessionService.Goto(id, *req.Index)
	}, r)
}

// GetVisibility returns the session's active and visible pages.
func (h *SessionHandler) GetVisibility(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionService.VisibilityState(mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ReportVisibility applies a batch of viewport events.
func (h *SessionHandler) ReportVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	state, err := h.sessionService.ReportVisibility(r.Context(), mux.Vars(r)["id"], req.Events)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GetPage returns one page with the session's matches highlighted.
func (h *SessionHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := pageVar(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	view, err := h.sessionService.PageView(mux.Vars(r)["id"], page)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) respondSearch(w http.ResponseWriter, op func(id string) (*domain.SearchState, error), r *http.Request) {
	state, err := op(mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
