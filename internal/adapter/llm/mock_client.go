package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is a scriptable Client for tests.
type MockClient struct {
	mu sync.Mutex

	// Reply, when set, is returned for every call.
	Reply string
	// Replies, when non-empty, are returned in order and take priority
	// over Reply. The last entry repeats once exhausted.
	Replies []string
	// Err, when set, makes every call fail.
	Err error

	calls [][]ChatMessage
	next  int
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock generation client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate returns the scripted reply and records the call.
func (m *MockClient) Generate(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, messages)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) > 0 {
		reply := m.Replies[m.next]
		if m.next < len(m.Replies)-1 {
			m.next++
		}
		return reply, nil
	}
	if m.Reply != "" {
		return m.Reply, nil
	}

	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			lastUser = messages[i].Content
			break
		}
	}
	return fmt.Sprintf("[MOCK] Received your message: %q.", lastUser), nil
}

// Calls returns the recorded message lists.
func (m *MockClient) Calls() [][]ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]ChatMessage, len(m.calls))
	copy(out, m.calls)
	return out
}
