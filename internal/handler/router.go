// Package handler assembles the HTTP surface of the server.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"copysmith/internal/api"
	"copysmith/internal/auth"
)

// Deps holds all dependencies required to build the HTTP router.
// SessionManager and AuthHandlers are nil when the server runs against the
// embedded store, where there is no login flow.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	API            api.Deps
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	if deps.SessionManager != nil {
		r.Use(deps.SessionManager.LoadAndSave)
	}

	// Auth routes (no auth required)
	if deps.AuthHandlers != nil {
		r.Get("/auth/login", deps.AuthHandlers.Login)
		r.Get("/auth/callback", deps.AuthHandlers.Callback)
		r.Post("/auth/logout", deps.AuthHandlers.Logout)
	}

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())

	// API sub-router at /api/v1.
	r.Mount("/api/v1", api.NewAPIRouter(deps.API))

	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
