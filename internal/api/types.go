package api

import (
	"time"

	"copysmith/internal/adgen"
	"copysmith/internal/store"
)

// --- Headline types ---

// LikeHeadlineRequest is the request body for POST /api/v1/headlines.
type LikeHeadlineRequest struct {
	HeadlineText string `json:"headlineText"`
	BodyText     string `json:"bodyText,omitempty"`
}

// UnlikeHeadlineRequest is the request body for POST /api/v1/headlines/unlike.
type UnlikeHeadlineRequest struct {
	HeadlineText string `json:"headlineText"`
}

// LikeHeadlineResponse reports the outcome of a like. Created is false when
// the owner had already saved identical content; ID then names the existing
// entry.
type LikeHeadlineResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

// HeadlineListResponse is the response for GET /api/v1/headlines.
type HeadlineListResponse struct {
	Headlines []*store.LikedHeadline `json:"headlines"`
}

// RemovedResponse reports how many entries a delete touched.
type RemovedResponse struct {
	Removed int `json:"removed"`
}

// --- Generation types ---

// GenerateRequest is the request body for POST /api/v1/ads/generate.
type GenerateRequest struct {
	Brand         string   `json:"brand,omitempty"`
	Product       string   `json:"product"`
	Benefit       string   `json:"benefit,omitempty"`
	Promotion     string   `json:"promotion,omitempty"`
	Audience      string   `json:"audience,omitempty"`
	Goal          string   `json:"goal,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Rules         []string `json:"rules,omitempty"`
	ReferenceData string   `json:"referenceData,omitempty"`
}

// GenerateResponse is the response for POST /api/v1/ads/generate.
type GenerateResponse struct {
	Candidates []adgen.Candidate `json:"candidates"`
}

// --- Stats types ---

// StatsResponse is the response for GET /api/v1/stats.
type StatsResponse struct {
	LikedCount       int   `json:"likedCount"`
	GenerationsTotal int64 `json:"generationsTotal"`
	GenerationsLast7 int64 `json:"generationsLast7d"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// TokenResponse is the JSON representation of an API token. The plaintext
// Token field is only populated in the creation response.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// TokenListResponse is the response for GET /api/v1/tokens.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}
