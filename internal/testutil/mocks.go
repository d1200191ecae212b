package testutil

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MockClient implements hub.Client for testing.
type MockClient struct {
	Name     string
	messages [][]byte
	mu       sync.Mutex
}

// NewMockClient creates a new MockClient with the given name.
func NewMockClient(name string) *MockClient {
	return &MockClient{Name: name}
}

// Username returns the mock client's name.
func (m *MockClient) Username() string { return m.Name }

// Send records a message sent to the mock client.
func (m *MockClient) Send(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.messages = append(m.messages, cp)
}

// GetMessages returns a copy of all messages received by the mock client.
func (m *MockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]byte, len(m.messages))
	copy(cp, m.messages)
	return cp
}

// Frames decodes every received message of the given event type, in order.
func (m *MockClient) Frames(eventType string) []map[string]any {
	var out []map[string]any
	for _, data := range m.GetMessages() {
		var frame map[string]any
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame["type"] == eventType {
			out = append(out, frame)
		}
	}
	return out
}

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
