package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id          string
	workspaceID uuid.UUID
	messages    [][]byte
	mu          sync.Mutex
	closed      bool
}

func newMockClient(id string, workspaceID uuid.UUID) *mockClient {
	return &mockClient{
		id:          id,
		workspaceID: workspaceID,
		messages:    make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) WorkspaceID() uuid.UUID {
	return m.workspaceID
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

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	wsA := uuid.New()
	wsB := uuid.New()

	client1 := newMockClient("client-1", wsA)
	client2 := newMockClient("client-2", wsA)
	client3 := newMockClient("client-3", wsB)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(wsA))
	assert.Equal(t, 1, hub.ClientCount(wsB))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(wsA))
	assert.Equal(t, 2, hub.TotalClientCount())

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_WorkspaceIsolation(t *testing.T) {
	hub := NewHub()

	wsA := uuid.New()
	wsB := uuid.New()

	clientA := newMockClient("client-a", wsA)
	clientB := newMockClient("client-b", wsB)

	hub.Register(clientA)
	hub.Register(clientB)

	hub.Broadcast(wsA, PromptCreated(map[string]string{"id": "p1"}))

	// Broadcast sends asynchronously
	require.Eventually(t, func() bool {
		return len(clientA.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Empty(t, clientB.GetMessages(), "client in another workspace must not receive the event")
}

func TestHub_Broadcast_EmptyWorkspace(t *testing.T) {
	hub := NewHub()

	// No clients registered; must not panic
	hub.Broadcast(uuid.New(), PromptCreated(nil))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_AllWorkspaceClients(t *testing.T) {
	hub := NewHub()

	wsA := uuid.New()
	client1 := newMockClient("client-1", wsA)
	client2 := newMockClient("client-2", wsA)

	hub.Register(client1)
	hub.Register(client2)

	hub.Broadcast(wsA, CollectionUpdated(map[string]string{"id": "c1"}))

	require.Eventually(t, func() bool {
		return len(client1.GetMessages()) == 1 && len(client2.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHub_Broadcast_ClosedClient(t *testing.T) {
	hub := NewHub()

	wsA := uuid.New()
	open := newMockClient("open", wsA)
	closed := newMockClient("closed", wsA)
	_ = closed.Close()

	hub.Register(open)
	hub.Register(closed)

	hub.Broadcast(wsA, PromptDeleted(map[string]string{"id": "p1"}))

	require.Eventually(t, func() bool {
		return len(open.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, closed.GetMessages())
}

func TestHub_Publish_ImplementsEventPublisher(t *testing.T) {
	var publisher EventPublisher = NewHub()

	// Publishing with no clients is a no-op
	publisher.Publish(uuid.New(), WorkspaceUpdated(nil))
}
