package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"copysmith/internal/adgen"
	"copysmith/internal/api"
	"copysmith/internal/auth"
	"copysmith/internal/liked"
	"copysmith/internal/ratelimit"
	"copysmith/internal/store"
	"copysmith/internal/testutil"
)

// stubGenerator returns canned candidates or a fixed error.
type stubGenerator struct {
	candidates []adgen.Candidate
	err        error
}

func (s *stubGenerator) Generate(ctx context.Context, brief adgen.Brief) ([]adgen.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router          http.Handler
	HeadlineStore   *store.SQLHeadlineStore
	UserStore       *store.UserStore
	TokenStore      *auth.SQLTokenStore
	GenerationStore *store.GenerationStore
	Generations     chan store.GenerationEvent
	Generator       *stubGenerator
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores. Bearer tokens stand in
// for sessions.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	hs := store.NewSQLHeadlineStore(db)
	us := store.NewUserStore(db)
	gs := store.NewGenerationStore(db)
	ts := auth.NewSQLTokenStore(db)

	gen := &stubGenerator{candidates: []adgen.Candidate{
		{HeadlineText: "Fresh Coffee Daily", BodyText: "Roasted this morning."},
	}}
	genCh := make(chan store.GenerationEvent, 16)

	apiAuth := auth.NewAPIAuthMiddleware(ts, nil, us)
	router := api.NewAPIRouter(api.Deps{
		Authenticate:    apiAuth.Authenticate,
		Liked:           liked.NewFacade(hs),
		Generator:       gen,
		Provider:        "stub",
		Generations:     genCh,
		GenerationStats: gs,
		Tokens:          ts,
		RateLimit:       ratelimit.New(100, time.Minute),
	})

	return &testEnv{
		Router:          router,
		HeadlineStore:   hs,
		UserStore:       us,
		TokenStore:      ts,
		GenerationStore: gs,
		Generations:     genCh,
		Generator:       gen,
	}
}

// seedUser creates a user and returns the user record.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	u, err := env.UserStore.Upsert(context.Background(), "test", "sub-"+email, email, "Test User", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, err = env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
