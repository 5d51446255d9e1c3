package handler

import (
	"net/http"

	"manifesto-reader/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	documentHandler *DocumentHandler,
	sessionHandler *SessionHandler,
	logger domain.Logger,
	allowedOrigins []string,
	adminToken string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(Recoverer(logger), RequestLogger(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "manifesto-reader"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Document routes
	api.HandleFunc("/document", documentHandler.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/document/pdf", documentHandler.GetPDF).Methods(http.MethodGet)
	api.HandleFunc("/document/pages/{page}", documentHandler.GetPage).Methods(http.MethodGet)
	api.HandleFunc("/sections", documentHandler.GetSections).Methods(http.MethodGet)

	// Admin routes
	adminOnly := AdminAuth(adminToken, logger)
	api.Handle("/document/reload", adminOnly(http.HandlerFunc(documentHandler.Reload))).Methods(http.MethodPost)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.CloseSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/search", sessionHandler.GetSearch).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/search", sessionHandler.Search).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/search", sessionHandler.ClearSearch).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/search/next", sessionHandler.Next).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/search/previous", sessionHandler.Previous).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/search/goto", sessionHandler.Goto).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/visibility", sessionHandler.GetVisibility).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/visibility", sessionHandler.ReportVisibility).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/pages/{page}", sessionHandler.GetPage).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
