package judge

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockJudge.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockJudge is a deterministic Provider for testing. It returns canned
// responses in FIFO order and records all requests.
type MockJudge struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockJudge creates a MockJudge with the given canned responses.
func NewMockJudge(responses ...MockResponse) *MockJudge {
	return &MockJudge{responses: responses}
}

// Evaluate returns the next canned response, or ErrUnavailable when the
// queue is empty.
func (m *MockJudge) Evaluate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{Content: resp.Content, Usage: resp.Usage, Model: "mock"}, nil
}

// Model returns "mock".
func (m *MockJudge) Model() string { return "mock" }

// AddResponse appends a canned response to the queue.
func (m *MockJudge) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Evaluate calls made.
func (m *MockJudge) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
