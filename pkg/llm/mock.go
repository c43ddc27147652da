package llm

import (
	"context"
	"sync"
)

// MockTransformer is an in-memory Transformer for tests and local
// development. It records every request and returns Response when set,
// otherwise it echoes the input text unchanged.
type MockTransformer struct {
	Response string
	Err      error

	mu       sync.Mutex
	requests []Request
}

// NewMockTransformer creates an echoing mock.
func NewMockTransformer() *MockTransformer {
	return &MockTransformer{}
}

// Transform implements Transformer.
func (m *MockTransformer) Transform(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	// Unknown actions fail the same way the real client does.
	if _, err := BuildPrompt(req); err != nil {
		return "", err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return req.Text, nil
}

// Requests returns a copy of every request seen so far.
func (m *MockTransformer) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
