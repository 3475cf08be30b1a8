package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	ownerID  string
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id, ownerID string) *mockClient {
	return &mockClient{
		id:       id,
		ownerID:  ownerID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) OwnerID() string {
	return m.ownerID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("client-1", "auth0|alice")
	client2 := newMockClient("client-2", "auth0|alice")
	client3 := newMockClient("client-3", "github|bob")

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount("auth0|alice"))
	assert.Equal(t, 1, hub.ClientCount("github|bob"))
	assert.Equal(t, 0, hub.ClientCount("nobody"))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount("auth0|alice"))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_OwnerIsolation(t *testing.T) {
	hub := NewHub()

	alice1 := newMockClient("client-1a", "auth0|alice")
	alice2 := newMockClient("client-1b", "auth0|alice")
	bob := newMockClient("client-2", "github|bob")

	hub.Register(alice1)
	hub.Register(alice2)
	hub.Register(bob)

	hub.Broadcast("auth0|alice", ContactCreated(map[string]interface{}{"id": float64(42)}))

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, alice1.GetMessages(), 1)
	assert.Len(t, alice2.GetMessages(), 1)
	assert.Len(t, bob.GetMessages(), 0, "other owners must not see the event")
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), fmt.Sprintf("owner-%d", i%5))
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(fmt.Sprintf("owner-%d", idx%5), ContactUpdated(map[string]interface{}{"id": float64(idx)}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1", "auth0|alice"))
	})
}

func TestHub_BroadcastToUnknownOwner(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast("nobody", ContactDeleted(map[string]interface{}{"id": float64(1)}))
	})
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()
	a := newMockClient("a", "auth0|alice")
	b := newMockClient("b", "github|bob")
	hub.Register(a)
	hub.Register(b)

	hub.CloseAll()

	assert.True(t, a.IsClosed())
	assert.True(t, b.IsClosed())
	assert.Equal(t, 0, hub.TotalClientCount())
}
