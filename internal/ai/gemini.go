package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiClient runs prompts against Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed model client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string { return "Gemini" }

// Execute sends one prompt and returns the first candidate's text.
func (c *GeminiClient) Execute(ctx context.Context, prompt string, temperature float32, maxTokens int) (ModelResponse, error) {
	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return ModelResponse{ModelUsed: c.model, ElapsedMs: time.Since(start).Milliseconds()},
			fmt.Errorf("gemini generate: %w", err)
	}

	resp := ModelResponse{
		Content:   result.Text(),
		ModelUsed: c.model,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		resp.TokensUsed = int(result.UsageMetadata.TotalTokenCount)
	}
	if resp.Content == "" {
		return resp, fmt.Errorf("gemini returned no text candidates")
	}
	return resp, nil
}
