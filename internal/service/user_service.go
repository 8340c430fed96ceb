package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// UserService handles identity sync and profile lookups
type UserService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository, workspaceRepo domain.WorkspaceRepository) *UserService {
	return &UserService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
	}
}

// SyncUser mirrors the identity provider's view of the user into the
// database. New identities get a user row, a personal workspace and an OWNER
// membership atomically; known identities get their profile fields refreshed.
// Accounts that somehow own no workspace are re-provisioned on the spot.
func (s *UserService) SyncUser(authID, email string, name, imageURL *string) (*domain.User, error) {
	existing, err := s.userRepo.GetByAuthID(authID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}

		user := &domain.User{
			AuthID:   authID,
			Email:    email,
			Name:     name,
			ImageURL: imageURL,
		}
		created, err := s.userRepo.CreateWithPersonalWorkspace(user, defaultWorkspaceName(name))
		if err != nil {
			log.Error().Err(err).Str("auth_id", authID).Msg("Failed to create user with personal workspace")
			return nil, err
		}
		log.Info().Str("user_id", created.ID.String()).Msg("Created new user with personal workspace")
		return created, nil
	}

	existing.Email = email
	// Absent claims leave the stored profile fields untouched
	if name != nil {
		existing.Name = name
	}
	if imageURL != nil {
		existing.ImageURL = imageURL
	}
	updated, err := s.userRepo.Update(existing)
	if err != nil {
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to update user profile")
		return nil, err
	}

	owned, err := s.workspaceRepo.CountOwnedByUser(updated.ID)
	if err != nil {
		return nil, err
	}
	if owned == 0 {
		// Accounts predating workspace provisioning have no workspace yet
		workspace := &domain.Workspace{
			Name:    defaultWorkspaceName(name),
			Type:    domain.WorkspaceTypePersonal,
			OwnerID: updated.ID,
		}
		if _, err := s.workspaceRepo.CreateWithOwner(workspace); err != nil {
			log.Error().Err(err).Str("user_id", updated.ID.String()).Msg("Failed to provision personal workspace")
			return nil, err
		}
		log.Info().Str("user_id", updated.ID.String()).Msg("Provisioned missing personal workspace")
	}

	return updated, nil
}

// GetByAuthID retrieves the user mapped to the external identity
func (s *UserService) GetByAuthID(authID string) (*domain.User, error) {
	return s.userRepo.GetByAuthID(authID)
}

// UpdateImageURL sets the user's avatar URL after a successful upload
func (s *UserService) UpdateImageURL(userID uuid.UUID, imageURL string) (*domain.User, error) {
	return s.userRepo.UpdateImageURL(userID, imageURL)
}

func defaultWorkspaceName(name *string) string {
	display := "User"
	if name != nil && *name != "" {
		display = *name
	}
	return fmt.Sprintf("%s's Workspace", display)
}
