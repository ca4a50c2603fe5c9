package llm

import (
	"context"
	"sync"
	"time"
)

// MockResponse is one canned reply of a MockProvider.
type MockResponse struct {
	Text      string
	Usage     Usage
	Truncated bool
	Err       error

	// Delay holds the reply back; a context that ends first wins.
	Delay time.Duration
}

// MockText is a canned reply carrying only text.
func MockText(text string) MockResponse {
	return MockResponse{Text: text}
}

// MockProvider replays canned replies in order and records every request.
// Once the queue is empty each call fails with ErrUpstreamUnavailable,
// which is also what the "mock" provider setting yields: every generation
// is served the fallback set.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	Calls   []Request
}

// NewMockProvider queues the given replies.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

// Generate pops the next reply. Structured requests are checked against
// their schema like a real service's reply would be.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, &ErrUpstreamUnavailable{Provider: "mock"}
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if reply.Delay > 0 {
		t := time.NewTimer(reply.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, &ErrUpstreamUnavailable{Provider: "mock", Err: ctx.Err()}
		case <-t.C:
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	return finish("mock", req, completion{
		text:      reply.Text,
		model:     "mock",
		usage:     reply.Usage,
		truncated: reply.Truncated,
	})
}

func (m *MockProvider) Name() string    { return "mock" }
func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues one more reply.
func (m *MockProvider) AddResponse(reply MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, reply)
}

// CallCount returns the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
