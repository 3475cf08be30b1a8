package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeContact EntityType = "contact"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "contact.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "contact"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ContactCreated creates a contact.created event
func ContactCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeContact, payload)
}

// ContactUpdated creates a contact.updated event
func ContactUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeContact, payload)
}

// ContactDeleted creates a contact.deleted event
func ContactDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeContact, payload)
}
