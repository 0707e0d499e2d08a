package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"copysmith/internal/auth"
	"copysmith/internal/liked"
	"copysmith/internal/metrics"
	"copysmith/internal/store"
)

// headlinesAPIHandler provides REST handlers for the liked-headline store.
type headlinesAPIHandler struct {
	liked *liked.Facade
}

// registerHeadlineRoutes registers liked-headline routes on r.
func registerHeadlineRoutes(r chi.Router, facade *liked.Facade) {
	h := &headlinesAPIHandler{liked: facade}
	r.Get("/headlines", h.List)
	r.Post("/headlines", h.Like)
	r.Post("/headlines/unlike", h.Unlike)
	r.Delete("/headlines/{id}", h.Remove)
	r.Delete("/headlines", h.Clear)
}

// List returns the caller's saved headlines, most recently liked first.
// GET /api/v1/headlines
func (h *headlinesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	headlines, err := h.liked.ListLiked(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "list headlines")
		return
	}

	writeJSON(w, http.StatusOK, HeadlineListResponse{Headlines: headlines})
}

// Like saves a headline for the caller. Returns 201 for a new entry and 200
// with created=false when identical content was already saved.
// POST /api/v1/headlines
func (h *headlinesAPIHandler) Like(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req LikeHeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.HeadlineText == "" {
		writeError(w, http.StatusBadRequest, "headlineText is required", "bad_request")
		return
	}

	result, err := h.liked.AddLiked(r.Context(), user.ID, req.HeadlineText, req.BodyText)
	if err != nil {
		writeStoreError(w, err, "like headline")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
		metrics.LikesSavedTotal.Inc()
	} else {
		metrics.LikesDuplicateTotal.Inc()
	}
	writeJSON(w, status, LikeHeadlineResponse{ID: result.ID, Created: result.Created})
}

// Unlike removes the caller's entries matching the given headline text.
// Unknown content is a no-op with removed=0, not an error.
// POST /api/v1/headlines/unlike
func (h *headlinesAPIHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req UnlikeHeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.HeadlineText == "" {
		writeError(w, http.StatusBadRequest, "headlineText is required", "bad_request")
		return
	}

	n, err := h.liked.RemoveLikedByContent(r.Context(), user.ID, req.HeadlineText)
	if err != nil {
		writeStoreError(w, err, "unlike headline")
		return
	}

	writeJSON(w, http.StatusOK, RemovedResponse{Removed: n})
}

// Remove deletes a single entry by id. Returns 404 for unknown ids and for
// entries owned by someone else.
// DELETE /api/v1/headlines/{id}
func (h *headlinesAPIHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	removed, err := h.liked.RemoveLikedByID(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "remove headline")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "not found", "not_found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear deletes every saved headline belonging to the caller.
// DELETE /api/v1/headlines
func (h *headlinesAPIHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	n, err := h.liked.ClearLiked(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err, "clear headlines")
		return
	}

	writeJSON(w, http.StatusOK, RemovedResponse{Removed: n})
}

// writeStoreError maps store errors to HTTP responses. Transient backend
// failures get a 503 so clients know a retry may succeed.
func writeStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, liked.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, store.ErrInvalidOwner):
		writeError(w, http.StatusBadRequest, "invalid owner", "bad_request")
	case store.IsUnavailable(err):
		log.Printf("%s: store unavailable: %v", op, err)
		writeError(w, http.StatusServiceUnavailable, "store temporarily unavailable, retry", "retryable")
	default:
		log.Printf("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
	}
}
