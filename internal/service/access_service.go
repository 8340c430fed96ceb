package service

import (
	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
)

// AccessService performs the workspace access-control check shared by every
// content operation
type AccessService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(userRepo domain.UserRepository, workspaceRepo domain.WorkspaceRepository) *AccessService {
	return &AccessService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
	}
}

// ResolveUser maps the external identity to the internal user record
func (s *AccessService) ResolveUser(authID string) (*domain.User, error) {
	return s.userRepo.GetByAuthID(authID)
}

// CheckAccess confirms the user is a member of the workspace and, when roles
// are given, that the member's role is in that exact set. Roles carry no
// ordering; each call site passes its own accepted set.
func (s *AccessService) CheckAccess(userID, workspaceID uuid.UUID, roles ...domain.MemberRole) (*domain.WorkspaceMember, error) {
	member, err := s.workspaceRepo.GetMember(workspaceID, userID)
	if err != nil {
		return nil, err
	}

	if len(roles) > 0 {
		allowed := false
		for _, role := range roles {
			if member.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, domain.ErrForbidden
		}
	}

	return member, nil
}

// CheckMembership resolves the external identity and confirms plain
// membership in the workspace. Used by the WebSocket token validator.
func (s *AccessService) CheckMembership(authID string, workspaceID uuid.UUID) error {
	user, err := s.ResolveUser(authID)
	if err != nil {
		return err
	}
	_, err = s.CheckAccess(user.ID, workspaceID)
	return err
}
