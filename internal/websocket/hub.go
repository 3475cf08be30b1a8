package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	OwnerID() string
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by owner subject.
// It is safe for concurrent use.
type Hub struct {
	// owners maps owner subject to a map of client ID to client
	owners map[string]map[string]ClientInterface
	mu     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		owners: make(map[string]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its owner
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clientID := client.ID()

	if h.owners[ownerID] == nil {
		h.owners[ownerID] = make(map[string]ClientInterface)
	}

	h.owners[ownerID][clientID] = client

	log.Debug().
		Str("owner_id", ownerID).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clientID := client.ID()

	if clients, ok := h.owners[ownerID]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)

			if len(clients) == 0 {
				delete(h.owners, ownerID)
			}

			log.Debug().
				Str("owner_id", ownerID).
				Str("client_id", clientID).
				Msg("WebSocket client unregistered")
		}
	}
}

// Broadcast sends an event to all clients of a specific owner
func (h *Hub) Broadcast(ownerID string, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("owner_id", ownerID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients, ok := h.owners[ownerID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy clients to avoid holding lock during send
	clientsCopy := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	for _, client := range clientsCopy {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("owner_id", ownerID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("owner_id", ownerID).
		Str("event_type", event.Type).
		Int("client_count", len(clientsCopy)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients connected as an owner
func (h *Hub) ClientCount(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.owners[ownerID]; ok {
		return len(clients)
	}
	return 0
}

// TotalClientCount returns the total number of connected clients
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.owners {
		total += len(clients)
	}
	return total
}

// CloseAll disconnects every client, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := make([]ClientInterface, 0)
	for _, clients := range h.owners {
		for _, c := range clients {
			all = append(all, c)
		}
	}
	h.owners = make(map[string]map[string]ClientInterface)
	h.mu.Unlock()

	for _, c := range all {
		_ = c.Close()
	}
}
