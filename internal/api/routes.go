package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures the dashboard API routes.
func SetupRoutes(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(recoveryMiddleware, loggingMiddleware)

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/sessions", h.CreateSessionHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", h.GetSessionHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", h.DeleteSessionHandler).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/pages/{page}", h.NavigateHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/refresh", h.RefreshHandler).Methods(http.MethodPost)

	return r
}
