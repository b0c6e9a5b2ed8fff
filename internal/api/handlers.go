package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/internal/pagination"
	"github.com/leonid6372/trades-pager/internal/session"
	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

type Handler struct {
	sessions *session.Manager
}

func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
	}
}

type createSessionRequest struct {
	Account string `json:"account"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	*session.Page
}

type fetchRange struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

type navigation struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Reason  string      `json:"reason,omitempty"`
	Fetched *fetchRange `json:"fetched,omitempty"`
}

type navigationResponse struct {
	sessionResponse
	Navigation navigation `json:"navigation"`
}

type errorResponse struct {
	Error        string `json:"error"`
	NavigationID string `json:"navigationId,omitempty"`
	CurrentPage  int    `json:"currentPage,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": h.sessions.Count()})
}

// CreateSessionHandler opens a paginated trade history for an account and returns its first page.
func (h *Handler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.sessions.Create(r.Context(), req.Account)
	if err != nil {
		if errors.Is(err, pagerrs.ErrEmptyAccount) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		log.Error("failed to create session", zap.String("account", req.Account), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	page, err := s.Page(r.Context())
	if err != nil {
		log.Error("failed to read page", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: s.ID, Page: page})
}

func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	page, err := s.Page(r.Context())
	if err != nil {
		log.Error("failed to read page", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: s.ID, Page: page})
}

// NavigateHandler moves a session to the requested page. Requests past the last page land on the
// last page; a request arriving while a load is in flight is answered with the unchanged page.
func (h *Handler) NavigateHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	target, err := cast.ToIntE(mux.Vars(r)["page"])
	if err != nil || target < 1 {
		writeError(w, http.StatusBadRequest, pagerrs.ErrInvalidPage.Error())
		return
	}

	res, err := s.Navigate(r.Context(), target)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pagerrs.ErrLoadFailed) {
			status = http.StatusBadGateway
		}

		writeJSON(w, status, errorResponse{
			Error:        err.Error(),
			NavigationID: res.NavigationID,
			CurrentPage:  res.Page,
		})
		return
	}

	page, err := s.Page(r.Context())
	if err != nil {
		log.Error("failed to read page", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	nav := navigation{
		ID:     res.NavigationID,
		Status: res.Status.String(),
		Reason: res.NoOpReason.String(),
	}
	if res.Status == pagination.StatusLoaded {
		nav.Fetched = &fetchRange{Offset: res.Decision.Offset, Length: res.Decision.Length}
	}

	writeJSON(w, http.StatusOK, navigationResponse{
		sessionResponse: sessionResponse{SessionID: s.ID, Page: page},
		Navigation:      nav,
	})
}

func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Refresh(r.Context()); err != nil {
		if errors.Is(err, pagerrs.ErrBusy) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}

		log.Error("failed to refresh session", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	page, err := s.Page(r.Context())
	if err != nil {
		log.Error("failed to read page", zap.String("session_id", s.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: s.ID, Page: page})
}

func (h *Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}

	return s, true
}
