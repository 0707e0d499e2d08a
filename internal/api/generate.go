package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"copysmith/internal/adgen"
	"copysmith/internal/auth"
	"copysmith/internal/liked"
	"copysmith/internal/metrics"
	"copysmith/internal/store"
)

// generateAPIHandler provides the ad generation endpoint.
type generateAPIHandler struct {
	generator   adgen.Generator
	liked       *liked.Facade
	generations chan<- store.GenerationEvent
	provider    string
}

// registerGenerateRoutes registers the generation route on r. The rate
// limiter only guards this route: generation burns provider quota, the rest
// of the API does not.
func registerGenerateRoutes(r chi.Router, deps Deps) {
	h := &generateAPIHandler{
		generator:   deps.Generator,
		liked:       deps.Liked,
		generations: deps.Generations,
		provider:    deps.Provider,
	}
	if deps.RateLimit != nil {
		r.With(deps.RateLimit.Middleware).Post("/ads/generate", h.Generate)
	} else {
		r.Post("/ads/generate", h.Generate)
	}
}

// Generate produces ad copy candidates for the caller's brief. The caller's
// saved headlines are passed to the provider as style examples.
// POST /api/v1/ads/generate
func (h *generateAPIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "ad generation is not configured", "generation_disabled")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Product == "" {
		writeError(w, http.StatusBadRequest, "product is required", "bad_request")
		return
	}

	// Best effort: generation still works when the liked list can't be read.
	examples, err := h.liked.ListLiked(r.Context(), user.ID)
	if err != nil {
		log.Printf("generate: list liked for examples: %v", err)
		examples = nil
	}

	brief := adgen.Brief{
		Brand:          req.Brand,
		Product:        req.Product,
		Benefit:        req.Benefit,
		Promotion:      req.Promotion,
		Audience:       req.Audience,
		Goal:           req.Goal,
		Keywords:       req.Keywords,
		Rules:          req.Rules,
		ReferenceData:  req.ReferenceData,
		LikedHeadlines: examples,
	}

	start := time.Now()
	candidates, err := h.generator.Generate(r.Context(), brief)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		log.Printf("generate: provider: %v", err)
		writeError(w, http.StatusBadGateway, "generation failed", "provider_error")
		return
	}
	metrics.GenerationsTotal.WithLabelValues("ok").Inc()

	// Record history off the request path. Drop the event if the writer is
	// backed up; history is not worth blocking a response over.
	if h.generations != nil {
		select {
		case h.generations <- store.GenerationEvent{
			OwnerID:    user.ID,
			Provider:   h.provider,
			Candidates: len(candidates),
		}:
		default:
			metrics.GenerationRecordErrorsTotal.Inc()
		}
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Candidates: candidates})
}
