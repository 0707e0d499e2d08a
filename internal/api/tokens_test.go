package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"copysmith/internal/api"
)

func TestTokensAPI_CreateListRevoke(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "user@example.com")
	token := seedToken(t, env, u.ID)

	// Create.
	body, _ := json.Marshal(api.CreateTokenRequest{Name: "ci-script"})
	req := authRequest(httptest.NewRequest(http.MethodPost, "/tokens", bytes.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created api.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Name != "ci-script" {
		t.Errorf("Name = %q, want %q", created.Name, "ci-script")
	}
	if !strings.HasPrefix(created.Token, "cs_") {
		t.Errorf("plaintext = %q, want cs_ prefix", created.Token)
	}

	// The new token is usable.
	req = authRequest(httptest.NewRequest(http.MethodGet, "/headlines", nil), created.Token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("new token list status = %d, want 200", rec.Code)
	}

	// List does not leak plaintext.
	req = authRequest(httptest.NewRequest(http.MethodGet, "/tokens", nil), token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), created.Token) {
		t.Error("token plaintext leaked in list response")
	}
	var listResp api.TokenListResponse
	if err := json.NewDecoder(rec.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Tokens) != 2 { // seed token + created token
		t.Fatalf("tokens = %d, want 2", len(listResp.Tokens))
	}

	// Revoke.
	req = authRequest(httptest.NewRequest(http.MethodDelete, "/tokens/"+created.ID, nil), token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("revoke status = %d, want 204", rec.Code)
	}

	// Revoked token stops working.
	req = authRequest(httptest.NewRequest(http.MethodGet, "/headlines", nil), created.Token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", rec.Code)
	}
}

func TestTokensAPI_CreateRequiresName(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "user@example.com")
	token := seedToken(t, env, u.ID)

	body, _ := json.Marshal(api.CreateTokenRequest{})
	req := authRequest(httptest.NewRequest(http.MethodPost, "/tokens", bytes.NewReader(body)), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTokensAPI_RevokeOtherUsersToken(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "owner@example.com")
	other := seedUser(t, env, "other@example.com")
	ownerToken := seedToken(t, env, owner.ID)
	otherToken := seedToken(t, env, other.ID)

	body, _ := json.Marshal(api.CreateTokenRequest{Name: "mine"})
	req := authRequest(httptest.NewRequest(http.MethodPost, "/tokens", bytes.NewReader(body)), ownerToken)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	var created api.TokenResponse
	json.NewDecoder(rec.Body).Decode(&created)

	req = authRequest(httptest.NewRequest(http.MethodDelete, "/tokens/"+created.ID, nil), otherToken)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
