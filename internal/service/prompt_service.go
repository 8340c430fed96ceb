package service

import (
	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CreatePromptInput holds the fields for creating a prompt with its first version
type CreatePromptInput struct {
	WorkspaceID  uuid.UUID
	CollectionID *uuid.UUID
	Title        string
	Description  *string
	Content      string
	Tags         []string
}

// LogRunInput holds the optional fields of a run log entry
type LogRunInput struct {
	Rating         *int32
	Notes          *string
	UsedModel      *string
	ResponseLength *int32
}

// PromptService handles prompt, version and run business logic
type PromptService struct {
	promptRepo     domain.PromptRepository
	access         *AccessService
	eventPublisher websocket.EventPublisher
}

// NewPromptService creates a new PromptService
func NewPromptService(promptRepo domain.PromptRepository, access *AccessService) *PromptService {
	return &PromptService{
		promptRepo: promptRepo,
		access:     access,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *PromptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PromptService) publish(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Create inserts a prompt together with version 1 (marked default) and its
// tag links in one transaction. Requires OWNER or EDITOR.
func (s *PromptService) Create(authID string, input CreatePromptInput) (*domain.Prompt, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(input.Title) > domain.MaxTitleLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Content == "" {
		return nil, domain.ErrContentRequired
	}

	if _, err := s.access.CheckAccess(user.ID, input.WorkspaceID, domain.RoleOwner, domain.RoleEditor); err != nil {
		return nil, err
	}

	prompt := &domain.Prompt{
		WorkspaceID:  input.WorkspaceID,
		CollectionID: input.CollectionID,
		Title:        input.Title,
		Description:  input.Description,
		CreatedByID:  user.ID,
	}
	created, err := s.promptRepo.CreateWithVersion(prompt, input.Content, input.Tags)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", input.WorkspaceID.String()).Msg("Failed to create prompt")
		return nil, err
	}

	s.publish(created.WorkspaceID, websocket.PromptCreated(created))
	return created, nil
}

// List returns workspace prompts matching the filter. Plain membership is
// enough to read.
func (s *PromptService) List(authID string, workspaceID uuid.UUID, filter domain.PromptFilter) ([]*domain.Prompt, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, workspaceID); err != nil {
		return nil, err
	}
	return s.promptRepo.List(workspaceID, filter)
}

// Get returns one prompt with full version history, tags and creator details
func (s *PromptService) Get(authID string, id uuid.UUID) (*domain.Prompt, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.promptRepo.GetDetail(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, prompt.WorkspaceID); err != nil {
		return nil, err
	}
	return prompt, nil
}

// Update applies a partial update. A provided tag list, even empty, replaces
// the full tag set; an omitted one leaves tags untouched. Requires OWNER or
// EDITOR.
func (s *PromptService) Update(authID string, id uuid.UUID, params domain.UpdatePromptParams) (*domain.Prompt, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.promptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, prompt.WorkspaceID, domain.RoleOwner, domain.RoleEditor); err != nil {
		return nil, err
	}

	updated, err := s.promptRepo.Update(id, params)
	if err != nil {
		return nil, err
	}

	s.publish(prompt.WorkspaceID, websocket.PromptUpdated(updated))
	return updated, nil
}

// Delete removes a prompt and its versions, runs and tag links in one
// transaction. Requires OWNER or EDITOR.
func (s *PromptService) Delete(authID string, id uuid.UUID) (*domain.Prompt, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.promptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, prompt.WorkspaceID, domain.RoleOwner, domain.RoleEditor); err != nil {
		return nil, err
	}

	deleted, err := s.promptRepo.Delete(id)
	if err != nil {
		return nil, err
	}

	s.publish(prompt.WorkspaceID, websocket.PromptDeleted(deleted))
	return deleted, nil
}

// CreateVersion appends a new version numbered max+1. New versions are not
// promoted to default; only version 1 ever carries the flag. Requires OWNER
// or EDITOR.
func (s *PromptService) CreateVersion(authID string, promptID uuid.UUID, content string, model *string) (*domain.PromptVersion, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	if content == "" {
		return nil, domain.ErrContentRequired
	}

	prompt, err := s.promptRepo.GetByID(promptID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, prompt.WorkspaceID, domain.RoleOwner, domain.RoleEditor); err != nil {
		return nil, err
	}

	version := &domain.PromptVersion{
		PromptID:    promptID,
		Content:     content,
		Model:       model,
		CreatedByID: user.ID,
	}
	created, err := s.promptRepo.CreateVersion(version)
	if err != nil {
		return nil, err
	}

	s.publish(prompt.WorkspaceID, websocket.PromptVersionCreated(created))
	return created, nil
}

// LogRun appends a run entry for a version. Any member may log runs; the
// workspace is re-derived through the version's parent prompt.
func (s *PromptService) LogRun(authID string, versionID uuid.UUID, input LogRunInput) (*domain.PromptRun, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	version, err := s.promptRepo.GetVersion(versionID)
	if err != nil {
		return nil, err
	}
	prompt, err := s.promptRepo.GetByID(version.PromptID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, prompt.WorkspaceID); err != nil {
		return nil, err
	}

	run := &domain.PromptRun{
		PromptVersionID: versionID,
		Rating:          input.Rating,
		Notes:           input.Notes,
		UsedModel:       input.UsedModel,
		ResponseLength:  input.ResponseLength,
		CreatedByID:     user.ID,
	}
	created, err := s.promptRepo.CreateRun(run)
	if err != nil {
		return nil, err
	}

	s.publish(prompt.WorkspaceID, websocket.PromptRunCreated(created))
	return created, nil
}
