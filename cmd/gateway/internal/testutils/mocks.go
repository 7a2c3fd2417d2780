package testutils

import (
	"context"
	"sync"
	"testing"

	"github.com/tickwatch/tickwatch/cmd/gateway/internal/protocol"
	"github.com/tickwatch/tickwatch/pkg/models"
)

// MockClient simulates a connected websocket client
type MockClient struct {
	IDVal    string
	Messages []protocol.WSResponse // Stores decoded JSON messages
	RawBytes []string              // Stores raw bytes
	Closed   bool
	Mu       sync.Mutex
}

func NewMockClient(id string) *MockClient {
	return &MockClient{IDVal: id, Messages: make([]protocol.WSResponse, 0)}
}

func (m *MockClient) ID() string { return m.IDVal }

func (m *MockClient) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

func (m *MockClient) SendJSON(v interface{}) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	// If it's a response, store it
	if resp, ok := v.(protocol.WSResponse); ok {
		m.Messages = append(m.Messages, resp)
	}
}

func (m *MockClient) SendBytes(b []byte) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.RawBytes = append(m.RawBytes, string(b))
}

func (m *MockClient) LastMsgType() string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1].Type
}

func (m *MockClient) LastMsg() protocol.WSResponse {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Messages) == 0 {
		return protocol.WSResponse{}
	}
	return m.Messages[len(m.Messages)-1]
}

// MockPriceStore simulates the Redis read model
type MockPriceStore struct {
	SubscribedChannels map[string]int // symbol -> count
	Universe           []models.Snapshot
	History            map[string][]models.Sample
	Mu                 sync.Mutex
}

func NewMockStore() *MockPriceStore {
	return &MockPriceStore{
		SubscribedChannels: make(map[string]int),
		History:            make(map[string][]models.Sample),
	}
}

func (m *MockPriceStore) GetSnapshots(ctx context.Context, symbols []string) ([]string, error) {
	return []string{`{"symbol":"AAPL","price":150}`}, nil
}

func (m *MockPriceStore) GetUniverse(ctx context.Context, symbols []string) ([]models.Snapshot, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	out := make([]models.Snapshot, len(m.Universe))
	copy(out, m.Universe)
	return out, nil
}

func (m *MockPriceStore) GetHistory(ctx context.Context, symbol string, limit int) ([]models.Sample, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	samples := m.History[symbol]
	if limit > 0 && limit < len(samples) {
		samples = samples[len(samples)-limit:]
	}
	out := make([]models.Sample, len(samples))
	copy(out, samples)
	return out, nil
}

func (m *MockPriceStore) SubscribeToFeed(ctx context.Context, symbol string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.SubscribedChannels[symbol]++
	return nil
}

func (m *MockPriceStore) UnsubscribeFromFeed(ctx context.Context, symbol string) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.SubscribedChannels[symbol]--
	if m.SubscribedChannels[symbol] <= 0 {
		delete(m.SubscribedChannels, symbol)
	}
	return nil
}

func (m *MockPriceStore) RunPubSub(ctx context.Context, onMessage func(channel string, payload string)) {
	// No-op for unit tests
}

func (m *MockPriceStore) Close() error { return nil }

func AssertTrue(t *testing.T, condition bool, msg string) {
	if !condition {
		t.Errorf("Assertion failed: %s", msg)
	}
}
