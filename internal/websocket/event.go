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
	EntityTypePrompt        EntityType = "prompt"
	EntityTypePromptVersion EntityType = "prompt_version"
	EntityTypePromptRun     EntityType = "prompt_run"
	EntityTypeCollection    EntityType = "collection"
	EntityTypeWorkspace     EntityType = "workspace"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "prompt.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "prompt"
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

// PromptCreated creates a prompt.created event
func PromptCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePrompt, payload)
}

// PromptUpdated creates a prompt.updated event
func PromptUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypePrompt, payload)
}

// PromptDeleted creates a prompt.deleted event
func PromptDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypePrompt, payload)
}

// PromptVersionCreated creates a prompt_version.created event
func PromptVersionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePromptVersion, payload)
}

// PromptRunCreated creates a prompt_run.created event
func PromptRunCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePromptRun, payload)
}

// CollectionCreated creates a collection.created event
func CollectionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCollection, payload)
}

// CollectionUpdated creates a collection.updated event
func CollectionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCollection, payload)
}

// CollectionDeleted creates a collection.deleted event
func CollectionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCollection, payload)
}

// WorkspaceUpdated creates a workspace.updated event
func WorkspaceUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeWorkspace, payload)
}
