package adgen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"copysmith/internal/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

type geminiGenerator struct {
	client       *genai.Client
	model        string
	promptCustom string
}

func newGeminiGenerator(cfg *config.Config) (*geminiGenerator, error) {
	if cfg.AdGen.APIKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}
	model := cfg.AdGen.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.AdGen.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiGenerator{
		client:       client,
		model:        model,
		promptCustom: cfg.AdGen.Prompt,
	}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, brief Brief) ([]Candidate, error) {
	prompt, err := renderPrompt(g.promptCustom, promptDataFromBrief(brief))
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from gemini")
	}

	return parseCandidates(text)
}
