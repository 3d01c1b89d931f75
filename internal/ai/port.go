// Package ai abstracts the language-model back-ends the pipeline talks to.
// The pipeline only sees the Client interface; which provider sits behind it
// is wiring.
package ai

import "context"

// ModelResponse is the raw text a provider returned plus call telemetry.
type ModelResponse struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokensUsed"`
	ModelUsed  string `json:"modelUsed"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// Client executes one prompt against a language model.
type Client interface {
	Execute(ctx context.Context, prompt string, temperature float32, maxTokens int) (ModelResponse, error)
	Name() string
}
