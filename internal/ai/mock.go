package ai

import (
	"context"
	"fmt"
	"sync"
)

// MockClient replays scripted replies in order. Used by tests and by the CLI
// when no provider key is configured.
type MockClient struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   []string
}

// NewMockClient builds a client that returns the given replies in sequence.
// The last reply repeats once the script runs out.
func NewMockClient(replies ...string) *MockClient {
	return &MockClient{replies: replies}
}

// FailWith queues an error before the scripted replies run.
func (m *MockClient) FailWith(errs ...error) *MockClient {
	m.errs = append(m.errs, errs...)
	return m
}

func (m *MockClient) Name() string { return "Mock" }

// Calls returns the prompts received so far.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClient) Execute(ctx context.Context, prompt string, temperature float32, maxTokens int) (ModelResponse, error) {
	if err := ctx.Err(); err != nil {
		return ModelResponse{ModelUsed: "mock"}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return ModelResponse{ModelUsed: "mock"}, err
	}
	if len(m.replies) == 0 {
		return ModelResponse{ModelUsed: "mock"}, fmt.Errorf("mock client has no scripted reply")
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return ModelResponse{
		Content:    reply,
		TokensUsed: len(reply) / 4,
		ModelUsed:  "mock",
		ElapsedMs:  1,
	}, nil
}
