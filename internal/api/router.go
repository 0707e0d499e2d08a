package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"copysmith/internal/adgen"
	"copysmith/internal/auth"
	"copysmith/internal/liked"
	"copysmith/internal/ratelimit"
	"copysmith/internal/store"
)

// Deps holds all dependencies required to build the API router.
// Generator and Generations are nil when ad generation is disabled; Tokens
// and GenerationStats are nil when the server runs against the embedded
// store.
type Deps struct {
	Authenticate    func(http.Handler) http.Handler
	Liked           *liked.Facade
	Generator       adgen.Generator
	Provider        string
	Generations     chan<- store.GenerationEvent
	GenerationStats *store.GenerationStore
	Tokens          auth.TokenStore
	RateLimit       *ratelimit.Limiter
}

// NewAPIRouter creates a chi sub-router for /api/v1.
// All routes require authentication and return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	// All API responses are JSON.
	r.Use(jsonContentType)
	r.Use(deps.Authenticate)

	registerHeadlineRoutes(r, deps.Liked)
	registerGenerateRoutes(r, deps)
	registerStatsRoutes(r, deps.Liked, deps.GenerationStats)
	if deps.Tokens != nil {
		registerTokenRoutes(r, deps.Tokens)
	}

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
