package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHub_Implements_EventPublisher(t *testing.T) {
	var _ EventPublisher = (*Hub)(nil)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", "auth0|alice")
	hub.Register(client)

	var publisher EventPublisher = hub
	event := ContactCreated(map[string]interface{}{"id": float64(42)})
	publisher.Publish("auth0|alice", event)

	// Allow async broadcast to complete
	time.Sleep(10 * time.Millisecond)

	messages := client.GetMessages()
	assert.Len(t, messages, 1)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	assert.NotPanics(t, func() {
		event := ContactDeleted(map[string]interface{}{"id": float64(1)})
		publisher.Publish("auth0|alice", event)
	})
}
