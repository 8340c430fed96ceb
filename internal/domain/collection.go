package domain

import (
	"time"

	"github.com/google/uuid"
)

// Collection groups prompts inside a workspace
type Collection struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	PromptCount int64     `json:"promptCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CollectionRepository defines the interface for collection persistence operations
type CollectionRepository interface {
	GetByID(id uuid.UUID) (*Collection, error)
	// ListByWorkspace returns the workspace's collections ordered by name
	// ascending, each with its prompt count
	ListByWorkspace(workspaceID uuid.UUID) ([]*Collection, error)
	Create(collection *Collection) (*Collection, error)
	Update(collection *Collection) (*Collection, error)
	// Delete detaches the collection's prompts and removes the collection
	// in a single transaction; prompts are never deleted with it
	Delete(id uuid.UUID) error
}
