package domain

import (
	"time"

	"github.com/google/uuid"
)

// Prompt represents a stored LLM prompt. Its workspace is immutable after
// creation; access is always re-derived from WorkspaceID.
type Prompt struct {
	ID           uuid.UUID  `json:"id"`
	WorkspaceID  uuid.UUID  `json:"workspaceId"`
	CollectionID *uuid.UUID `json:"collectionId"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	CreatedByID  uuid.UUID  `json:"createdById"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Populated on reads, depending on the query
	Tags           []Tag           `json:"tags,omitempty"`
	Versions       []PromptVersion `json:"versions,omitempty"`
	DefaultVersion *PromptVersion  `json:"defaultVersion,omitempty"`
	VersionCount   int64           `json:"versionCount,omitempty"`
	Collection     *Collection     `json:"collection,omitempty"`
	CreatedBy      *UserSummary    `json:"createdBy,omitempty"`
}

// PromptVersion is one immutable revision of a prompt's content.
// Version numbers start at 1 and are never reused, even after deletions.
type PromptVersion struct {
	ID            uuid.UUID    `json:"id"`
	PromptID      uuid.UUID    `json:"promptId"`
	VersionNumber int32        `json:"versionNumber"`
	Content       string       `json:"content"`
	Model         *string      `json:"model"`
	IsDefault     bool         `json:"isDefault"`
	CreatedByID   uuid.UUID    `json:"createdById"`
	CreatedBy     *UserSummary `json:"createdBy,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Tag is a globally unique label shared across workspaces
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PromptRun is an append-only log entry for one execution of a version
type PromptRun struct {
	ID              uuid.UUID `json:"id"`
	PromptVersionID uuid.UUID `json:"promptVersionId"`
	Rating          *int32    `json:"rating"`
	Notes           *string   `json:"notes"`
	UsedModel       *string   `json:"usedModel"`
	ResponseLength  *int32    `json:"responseLength"`
	CreatedByID     uuid.UUID `json:"createdById"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PromptFilter holds the optional list filters. Dimensions combine
// conjunctively; TagNames matches prompts carrying at least one of the names.
type PromptFilter struct {
	CollectionID *uuid.UUID
	Search       string
	TagNames     []string
}

// UpdatePromptParams carries partial-update fields. Nil means "leave
// unchanged"; for Tags, a non-nil empty slice clears the tag set. The
// collection reference is tri-state: it is only written when
// CollectionIDSet is true, and a nil CollectionID then detaches the prompt.
type UpdatePromptParams struct {
	Title           *string
	Description     *string
	CollectionID    *uuid.UUID
	CollectionIDSet bool
	Tags            *[]string
}

// PromptRepository defines the interface for prompt persistence operations
type PromptRepository interface {
	GetByID(id uuid.UUID) (*Prompt, error)
	// GetDetail loads the prompt with all versions (descending), tags,
	// collection and creator summaries
	GetDetail(id uuid.UUID) (*Prompt, error)
	// List returns workspace prompts matching the filter, most recently
	// updated first, each with its default version, tags and version count
	List(workspaceID uuid.UUID, filter PromptFilter) ([]*Prompt, error)
	// CreateWithVersion atomically inserts the prompt, its version 1 marked
	// default, and the deduplicated tag links (tags created on demand)
	CreateWithVersion(prompt *Prompt, content string, tagNames []string) (*Prompt, error)
	// Update applies the partial update and, when params.Tags is set,
	// replaces the full tag set, all in one transaction
	Update(id uuid.UUID, params UpdatePromptParams) (*Prompt, error)
	// Delete removes runs, versions, tag links and the prompt itself in one
	// transaction, returning the deleted prompt
	Delete(id uuid.UUID) (*Prompt, error)
	// CreateVersion inserts a new version numbered max+1; it is never
	// marked default
	CreateVersion(version *PromptVersion) (*PromptVersion, error)
	GetVersion(id uuid.UUID) (*PromptVersion, error)
	CreateRun(run *PromptRun) (*PromptRun, error)
}
