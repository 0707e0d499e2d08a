// Package adgen generates ad copy candidates via an LLM provider.
package adgen

import (
	"context"
	"fmt"

	"copysmith/internal/config"
	"copysmith/internal/store"
)

const (
	// Providers return up to this many candidates per request.
	maxCandidates = 5
	// Display limits for a single ad slot. Longer text is cut at a word
	// boundary before it reaches the client.
	maxHeadlineLen = 40
	maxBodyLen     = 125
)

// Brief is the input to the Generator. Everything except Product is optional.
type Brief struct {
	Brand         string
	Product       string
	Benefit       string
	Promotion     string
	Audience      string
	Goal          string
	Keywords      []string
	Rules         []string
	ReferenceData string

	// LikedHeadlines steers tone: candidates should resemble copy the
	// user has already saved.
	LikedHeadlines []*store.LikedHeadline
}

// Candidate is a single generated ad.
type Candidate struct {
	HeadlineText string `json:"headlineText"`
	BodyText     string `json:"bodyText"`
}

// Generator produces ad copy candidates via an LLM provider.
type Generator interface {
	Generate(ctx context.Context, brief Brief) ([]Candidate, error)
}

// New creates a Generator based on the config. Returns nil when the provider
// is unset, meaning ad generation is disabled.
func New(cfg *config.Config) (Generator, error) {
	switch cfg.AdGen.Provider {
	case "":
		return nil, nil
	case "anthropic":
		return newAnthropicGenerator(cfg), nil
	case "openai", "openai-compatible":
		return newOpenAIGenerator(cfg), nil
	case "gemini":
		return newGeminiGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported adgen provider: %q", cfg.AdGen.Provider)
	}
}
