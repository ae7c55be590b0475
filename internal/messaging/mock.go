package messaging

import (
	"context"
	"sync"
)

// SentMessage records one outbound message captured by the mock.
type SentMessage struct {
	To   string
	Body string
}

// MockClient is an in-memory Sender and MediaFetcher used in tests.
type MockClient struct {
	mu           sync.Mutex
	SentMessages []SentMessage
	MediaBody    []byte
	SendErr      error
	FetchErr     error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) SendMessage(ctx context.Context, to string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentMessages = append(m.SentMessages, SentMessage{To: to, Body: body})
	return nil
}

func (m *MockClient) FetchMedia(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if m.MediaBody != nil {
		return m.MediaBody, nil
	}
	return []byte("fake-media"), nil
}

// Sent returns a copy of the captured messages.
func (m *MockClient) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.SentMessages))
	copy(out, m.SentMessages)
	return out
}
