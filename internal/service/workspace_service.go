package service

import (
	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WorkspaceService handles workspace-related business logic
type WorkspaceService struct {
	workspaceRepo  domain.WorkspaceRepository
	access         *AccessService
	eventPublisher websocket.EventPublisher
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository, access *AccessService) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		access:        access,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *WorkspaceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a workspace owned by the caller, with its OWNER membership,
// atomically. Type defaults to TEAM.
func (s *WorkspaceService) Create(authID, name string, workspaceType domain.WorkspaceType) (*domain.Workspace, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if workspaceType == "" {
		workspaceType = domain.WorkspaceTypeTeam
	}

	workspace := &domain.Workspace{
		Name:    name,
		Type:    workspaceType,
		OwnerID: user.ID,
	}
	created, err := s.workspaceRepo.CreateWithOwner(workspace)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create workspace")
		return nil, err
	}
	return created, nil
}

// ListForUser returns every workspace the caller is a member of
func (s *WorkspaceService) ListForUser(authID string) ([]*domain.Workspace, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}
	return s.workspaceRepo.ListForUser(user.ID)
}

// Get returns one workspace with its members; the caller must be a member
func (s *WorkspaceService) Get(authID string, id uuid.UUID) (*domain.Workspace, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.GetWithMembers(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, id); err != nil {
		return nil, err
	}
	return workspace, nil
}

// UpdateName renames a workspace. Any member except a VIEWER may rename.
func (s *WorkspaceService) UpdateName(authID string, id uuid.UUID, name string) (*domain.Workspace, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domain.ErrNameRequired
	}

	if _, err := s.access.CheckAccess(user.ID, id, domain.RoleOwner, domain.RoleEditor); err != nil {
		return nil, err
	}

	updated, err := s.workspaceRepo.UpdateName(id, name)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(id, websocket.WorkspaceUpdated(updated))
	}
	return updated, nil
}

// Delete removes a workspace and everything in it. Only the OWNER role may
// delete; ownership of the workspace row itself grants nothing.
func (s *WorkspaceService) Delete(authID string, id uuid.UUID) error {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return err
	}

	if _, err := s.access.CheckAccess(user.ID, id, domain.RoleOwner); err != nil {
		return err
	}

	if err := s.workspaceRepo.Delete(id); err != nil {
		return err
	}
	log.Info().Str("workspace_id", id.String()).Str("user_id", user.ID.String()).Msg("Workspace deleted")
	return nil
}
