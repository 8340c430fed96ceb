package websocket

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypePrompt, map[string]string{"id": "p1"})

	assert.Equal(t, "prompt.created", event.Type)
	assert.Equal(t, EntityTypePrompt, event.Entity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_ToJSON(t *testing.T) {
	event := PromptVersionCreated(map[string]interface{}{"versionNumber": 2})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "prompt_version.created", decoded["type"])
	assert.Equal(t, "prompt_version", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), payload["versionNumber"])
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantType string
	}{
		{"prompt created", PromptCreated(nil), "prompt.created"},
		{"prompt updated", PromptUpdated(nil), "prompt.updated"},
		{"prompt deleted", PromptDeleted(nil), "prompt.deleted"},
		{"version created", PromptVersionCreated(nil), "prompt_version.created"},
		{"run created", PromptRunCreated(nil), "prompt_run.created"},
		{"collection created", CollectionCreated(nil), "collection.created"},
		{"collection updated", CollectionUpdated(nil), "collection.updated"},
		{"collection deleted", CollectionDeleted(nil), "collection.deleted"},
		{"workspace updated", WorkspaceUpdated(nil), "workspace.updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.Type)
		})
	}
}

func TestNoOpPublisher(t *testing.T) {
	publisher := &NoOpPublisher{}

	// Must not panic
	publisher.Publish(uuid.Nil, PromptCreated(nil))
}
