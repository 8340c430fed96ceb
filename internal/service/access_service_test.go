package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/testutil"
)

func setupAccess(t *testing.T) (*AccessService, *testutil.MockUserRepository, *testutil.MockWorkspaceRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	workspaceRepo.LinkUsers(userRepo)
	return NewAccessService(userRepo, workspaceRepo), userRepo, workspaceRepo
}

func addMemberUser(userRepo *testutil.MockUserRepository, workspaceRepo *testutil.MockWorkspaceRepository, authID string, workspaceID uuid.UUID, role domain.MemberRole) *domain.User {
	user := &domain.User{AuthID: authID, Email: authID + "@example.com"}
	userRepo.AddUser(user)
	workspaceRepo.AddMember(workspaceID, user.ID, role)
	return user
}

func TestCheckAccess_NonMember_Forbidden(t *testing.T) {
	access, userRepo, workspaceRepo := setupAccess(t)

	owner := &domain.User{AuthID: "auth0|owner", Email: "owner@example.com"}
	userRepo.AddUser(owner)
	ws, _ := workspaceRepo.CreateWithOwner(&domain.Workspace{Name: "Team", Type: domain.WorkspaceTypeTeam, OwnerID: owner.ID})

	stranger := &domain.User{AuthID: "auth0|stranger", Email: "stranger@example.com"}
	userRepo.AddUser(stranger)

	_, err := access.CheckAccess(stranger.ID, ws.ID)
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestCheckAccess_MemberWithoutRoleFilter_Allowed(t *testing.T) {
	access, userRepo, workspaceRepo := setupAccess(t)

	workspaceID := uuid.New()
	viewer := addMemberUser(userRepo, workspaceRepo, "auth0|viewer", workspaceID, domain.RoleViewer)

	member, err := access.CheckAccess(viewer.ID, workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if member.Role != domain.RoleViewer {
		t.Errorf("Expected VIEWER role, got %s", member.Role)
	}
}

func TestCheckAccess_RoleOutsideSet_Forbidden(t *testing.T) {
	access, userRepo, workspaceRepo := setupAccess(t)

	workspaceID := uuid.New()
	viewer := addMemberUser(userRepo, workspaceRepo, "auth0|viewer", workspaceID, domain.RoleViewer)

	_, err := access.CheckAccess(viewer.ID, workspaceID, domain.RoleOwner, domain.RoleEditor)
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden for VIEWER outside {OWNER, EDITOR}, got %v", err)
	}
}

func TestCheckAccess_EditorNotInOwnerOnlySet_Forbidden(t *testing.T) {
	access, userRepo, workspaceRepo := setupAccess(t)

	workspaceID := uuid.New()
	editor := addMemberUser(userRepo, workspaceRepo, "auth0|editor", workspaceID, domain.RoleEditor)

	// Roles form no hierarchy: EDITOR does not imply any OWNER privilege
	_, err := access.CheckAccess(editor.ID, workspaceID, domain.RoleOwner)
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden for EDITOR in OWNER-only set, got %v", err)
	}
}

func TestCheckMembership_UnknownIdentity(t *testing.T) {
	access, _, _ := setupAccess(t)

	if err := access.CheckMembership("auth0|ghost", uuid.New()); err != domain.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestCheckMembership_Member_OK(t *testing.T) {
	access, userRepo, workspaceRepo := setupAccess(t)

	workspaceID := uuid.New()
	addMemberUser(userRepo, workspaceRepo, "auth0|member", workspaceID, domain.RoleViewer)

	if err := access.CheckMembership("auth0|member", workspaceID); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
