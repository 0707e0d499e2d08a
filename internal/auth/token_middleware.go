package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"copysmith/internal/store"
)

// APIAuthMiddleware authenticates API requests. A request is accepted when it
// carries either a valid Bearer token or a valid browser session, so the
// editor frontend and scripted clients share the same routes.
type APIAuthMiddleware struct {
	tokens   TokenStore
	sessions *scs.SessionManager
	users    *store.UserStore
}

// NewAPIAuthMiddleware creates a new APIAuthMiddleware.
func NewAPIAuthMiddleware(ts TokenStore, sm *scs.SessionManager, us *store.UserStore) *APIAuthMiddleware {
	return &APIAuthMiddleware{tokens: ts, sessions: sm, users: us}
}

// Authenticate validates a Bearer token when the Authorization header is
// present, and falls back to the session otherwise.
// WHEN valid: injects the owner's *store.User into context; bearer auth also
// fires an async last_used_at update.
// WHEN invalid/missing/expired/revoked: returns 401 with {"error": "unauthorized"}.
func (m *APIAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			m.authenticateBearer(w, r, next, authHeader)
			return
		}
		m.authenticateSession(w, r, next)
	})
}

func (m *APIAuthMiddleware) authenticateBearer(w http.ResponseWriter, r *http.Request, next http.Handler, authHeader string) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeUnauthorized(w)
		return
	}
	plaintext := strings.TrimPrefix(authHeader, "Bearer ")
	if plaintext == "" {
		writeUnauthorized(w)
		return
	}

	// Hash the plaintext token and look it up.
	hash := HashToken(plaintext)
	rec, err := m.tokens.GetByHash(r.Context(), hash)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if rec.RevokedAt.Valid {
		writeUnauthorized(w)
		return
	}
	if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
		writeUnauthorized(w)
		return
	}

	user, err := m.users.GetByID(r.Context(), rec.UserID)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	// Update last_used_at asynchronously to avoid write overhead on every read.
	go m.tokens.UpdateLastUsed(context.Background(), rec.ID)

	ctx := context.WithValue(r.Context(), UserContextKey, user)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func (m *APIAuthMiddleware) authenticateSession(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if m.sessions == nil {
		writeUnauthorized(w)
		return
	}
	userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
	if userID == "" {
		writeUnauthorized(w)
		return
	}
	user, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		writeUnauthorized(w)
		return
	}
	ctx := context.WithValue(r.Context(), UserContextKey, user)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// writeUnauthorized writes a 401 JSON response with {"error": "unauthorized"}.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
