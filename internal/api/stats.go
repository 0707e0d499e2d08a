package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"copysmith/internal/auth"
	"copysmith/internal/liked"
	"copysmith/internal/store"
)

// statsAPIHandler reports per-owner usage figures.
type statsAPIHandler struct {
	liked       *liked.Facade
	generations *store.GenerationStore
}

// registerStatsRoutes registers the stats route on r.
func registerStatsRoutes(r chi.Router, facade *liked.Facade, generations *store.GenerationStore) {
	h := &statsAPIHandler{liked: facade, generations: generations}
	r.Get("/stats", h.Get)
}

// Get returns the caller's liked count and generation history totals.
// Generation totals are zero when no history store is configured.
// GET /api/v1/stats
func (h *statsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	headlines, err := h.liked.ListLiked(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "stats: list liked")
		return
	}

	resp := StatsResponse{LikedCount: len(headlines)}
	if h.generations != nil {
		stats, err := h.generations.StatsForOwner(r.Context(), user.ID)
		if err != nil {
			writeStoreError(w, err, "stats: generation stats")
			return
		}
		resp.GenerationsTotal = stats.Total
		resp.GenerationsLast7 = stats.Last7d
	}

	writeJSON(w, http.StatusOK, resp)
}
