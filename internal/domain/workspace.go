package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceType distinguishes auto-provisioned personal workspaces from team ones
type WorkspaceType string

const (
	WorkspaceTypePersonal WorkspaceType = "PERSONAL"
	WorkspaceTypeTeam     WorkspaceType = "TEAM"
)

// MemberRole is a workspace membership role. Roles form no hierarchy; every
// operation declares its own accepted set.
type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleEditor MemberRole = "EDITOR"
	RoleViewer MemberRole = "VIEWER"
)

// Workspace represents a prompt workspace
type Workspace struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Type      WorkspaceType     `json:"type"`
	OwnerID   uuid.UUID         `json:"ownerId"`
	Members   []WorkspaceMember `json:"members,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// WorkspaceMember is a membership row. Membership rows are the sole
// authorization source; owning a workspace grants nothing without one.
type WorkspaceMember struct {
	WorkspaceID uuid.UUID    `json:"workspaceId"`
	UserID      uuid.UUID    `json:"userId"`
	Role        MemberRole   `json:"role"`
	User        *UserSummary `json:"user,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(id uuid.UUID) (*Workspace, error)
	// GetWithMembers loads the workspace with its membership rows and user summaries
	GetWithMembers(id uuid.UUID) (*Workspace, error)
	// ListForUser returns every workspace the user is a member of, with
	// members populated, ordered by creation time ascending
	ListForUser(userID uuid.UUID) ([]*Workspace, error)
	// CreateWithOwner atomically creates the workspace and an OWNER
	// membership for its owner
	CreateWithOwner(workspace *Workspace) (*Workspace, error)
	UpdateName(id uuid.UUID, name string) (*Workspace, error)
	Delete(id uuid.UUID) error
	GetMember(workspaceID, userID uuid.UUID) (*WorkspaceMember, error)
	CountOwnedByUser(userID uuid.UUID) (int64, error)
}
