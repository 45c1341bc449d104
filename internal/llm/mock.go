package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// errMockExhausted is returned once the queue is empty and no Default is set.
var errMockExhausted = errors.New("mock provider: no responses queued")

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and keeps every request
// it received in Calls. It backs the "mock" provider setting and tests.
type MockProvider struct {
	mu      sync.Mutex
	queue   []MockResponse
	Default *MockResponse
	Calls   []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	next, ok := m.pop()
	if !ok {
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) pop() (MockResponse, bool) {
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, true
	}
	if m.Default != nil {
		return *m.Default, true
	}
	return MockResponse{}, false
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, resp)
	m.mu.Unlock()
}

// CallCount reports how many requests Generate has seen.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
