package service

import (
	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/websocket"
)

// CollectionService handles collection business logic.
//
// Collections deliberately require only plain membership for every operation,
// including mutation. Prompts require OWNER or EDITOR; collections do not.
type CollectionService struct {
	collectionRepo domain.CollectionRepository
	access         *AccessService
	eventPublisher websocket.EventPublisher
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(collectionRepo domain.CollectionRepository, access *AccessService) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		access:         access,
	}
}

// SetEventPublisher sets the WebSocket event publisher
func (s *CollectionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CollectionService) publish(workspaceID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Create creates a collection in the workspace
func (s *CollectionService) Create(authID string, workspaceID uuid.UUID, name string, description *string) (*domain.Collection, error) {
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

	if _, err := s.access.CheckAccess(user.ID, workspaceID); err != nil {
		return nil, err
	}

	collection := &domain.Collection{
		WorkspaceID: workspaceID,
		Name:        name,
		Description: description,
	}
	created, err := s.collectionRepo.Create(collection)
	if err != nil {
		return nil, err
	}

	s.publish(workspaceID, websocket.CollectionCreated(created))
	return created, nil
}

// List returns the workspace's collections, name ascending, with prompt counts
func (s *CollectionService) List(authID string, workspaceID uuid.UUID) ([]*domain.Collection, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, workspaceID); err != nil {
		return nil, err
	}
	return s.collectionRepo.ListByWorkspace(workspaceID)
}

// Get returns one collection
func (s *CollectionService) Get(authID string, id uuid.UUID) (*domain.Collection, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	collection, err := s.collectionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, collection.WorkspaceID); err != nil {
		return nil, err
	}
	return collection, nil
}

// Update applies a partial update to name and description
func (s *CollectionService) Update(authID string, id uuid.UUID, name, description *string) (*domain.Collection, error) {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return nil, err
	}

	collection, err := s.collectionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.CheckAccess(user.ID, collection.WorkspaceID); err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, domain.ErrNameRequired
		}
		collection.Name = *name
	}
	if description != nil {
		collection.Description = description
	}

	updated, err := s.collectionRepo.Update(collection)
	if err != nil {
		return nil, err
	}

	s.publish(collection.WorkspaceID, websocket.CollectionUpdated(updated))
	return updated, nil
}

// Delete removes the collection. Its prompts survive with their collection
// reference cleared.
func (s *CollectionService) Delete(authID string, id uuid.UUID) error {
	user, err := s.access.ResolveUser(authID)
	if err != nil {
		return err
	}

	collection, err := s.collectionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if _, err := s.access.CheckAccess(user.ID, collection.WorkspaceID); err != nil {
		return err
	}

	if err := s.collectionRepo.Delete(id); err != nil {
		return err
	}

	s.publish(collection.WorkspaceID, websocket.CollectionDeleted(collection))
	return nil
}
