package auth

import (
	"context"
	"net/http"

	"copysmith/internal/store"
)

// StaticIdentity injects a fixed user into every request context. It stands in
// for session and token auth when the server runs against the embedded store,
// where there is exactly one owner and no identity provider.
func StaticIdentity(ownerID string) func(http.Handler) http.Handler {
	user := &store.User{
		ID:          ownerID,
		Provider:    "local",
		Subject:     ownerID,
		DisplayName: ownerID,
		Role:        "admin",
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
