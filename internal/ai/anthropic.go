package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// AnthropicClient runs prompts against Anthropic's Messages API.
type AnthropicClient struct {
	apiKey string
	model  string
	client *http.Client
}

// NewAnthropicClient creates an Anthropic-backed model client.
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	return &AnthropicClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *AnthropicClient) Name() string { return "Anthropic" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Execute sends one prompt as a single user message.
func (c *AnthropicClient) Execute(ctx context.Context, prompt string, temperature float32, maxTokens int) (ModelResponse, error) {
	start := time.Now()
	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return ModelResponse{ModelUsed: c.model}, fmt.Errorf("marshal anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicEndpoint, bytes.NewReader(body))
	if err != nil {
		return ModelResponse{ModelUsed: c.model}, fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return ModelResponse{ModelUsed: c.model, ElapsedMs: time.Since(start).Milliseconds()},
			fmt.Errorf("anthropic request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ModelResponse{ModelUsed: c.model, ElapsedMs: time.Since(start).Milliseconds()},
			fmt.Errorf("read anthropic response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ModelResponse{ModelUsed: c.model, ElapsedMs: time.Since(start).Milliseconds()},
			fmt.Errorf("decode anthropic response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		msg := httpResp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return ModelResponse{ModelUsed: c.model, ElapsedMs: time.Since(start).Milliseconds()},
			fmt.Errorf("anthropic API error: %s", msg)
	}
	if len(parsed.Content) == 0 {
		return ModelResponse{ModelUsed: c.model, ElapsedMs: time.Since(start).Milliseconds()},
			fmt.Errorf("anthropic returned empty content")
	}

	return ModelResponse{
		Content:    parsed.Content[0].Text,
		TokensUsed: parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		ModelUsed:  c.model,
		ElapsedMs:  time.Since(start).Milliseconds(),
	}, nil
}
