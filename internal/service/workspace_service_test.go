package service

import (
	"strings"
	"testing"

	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/testutil"
)

func setupWorkspaceService(t *testing.T) (*WorkspaceService, *testutil.MockUserRepository, *testutil.MockWorkspaceRepository) {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	workspaceRepo.LinkUsers(userRepo)
	access := NewAccessService(userRepo, workspaceRepo)
	return NewWorkspaceService(workspaceRepo, access), userRepo, workspaceRepo
}

func TestCreateWorkspace_Success(t *testing.T) {
	workspaceService, userRepo, workspaceRepo := setupWorkspaceService(t)

	user := &domain.User{AuthID: "auth0|ada", Email: "ada@example.com"}
	userRepo.AddUser(user)

	workspace, err := workspaceService.Create("auth0|ada", "Research", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if workspace.Type != domain.WorkspaceTypeTeam {
		t.Errorf("Expected type to default to TEAM, got %s", workspace.Type)
	}

	member, err := workspaceRepo.GetMember(workspace.ID, user.ID)
	if err != nil {
		t.Fatalf("Expected creator to get a membership, got %v", err)
	}
	if member.Role != domain.RoleOwner {
		t.Errorf("Expected OWNER membership for creator, got %s", member.Role)
	}
}

func TestCreateWorkspace_EmptyName(t *testing.T) {
	workspaceService, userRepo, _ := setupWorkspaceService(t)
	userRepo.AddUser(&domain.User{AuthID: "auth0|ada", Email: "ada@example.com"})

	_, err := workspaceService.Create("auth0|ada", "", "")
	if err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateWorkspace_NameTooLong(t *testing.T) {
	workspaceService, userRepo, _ := setupWorkspaceService(t)
	userRepo.AddUser(&domain.User{AuthID: "auth0|ada", Email: "ada@example.com"})

	_, err := workspaceService.Create("auth0|ada", strings.Repeat("x", 256), "")
	if err != domain.ErrNameTooLong {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestGetWorkspace_NonMember_Forbidden(t *testing.T) {
	workspaceService, userRepo, _ := setupWorkspaceService(t)

	userRepo.AddUser(&domain.User{AuthID: "auth0|owner", Email: "owner@example.com"})
	workspace, err := workspaceService.Create("auth0|owner", "Team", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	userRepo.AddUser(&domain.User{AuthID: "auth0|stranger", Email: "stranger@example.com"})
	_, err = workspaceService.Get("auth0|stranger", workspace.ID)
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestUpdateWorkspaceName_Viewer_Forbidden(t *testing.T) {
	workspaceService, userRepo, workspaceRepo := setupWorkspaceService(t)

	userRepo.AddUser(&domain.User{AuthID: "auth0|owner", Email: "owner@example.com"})
	workspace, _ := workspaceService.Create("auth0|owner", "Team", "")

	viewer := &domain.User{AuthID: "auth0|viewer", Email: "viewer@example.com"}
	userRepo.AddUser(viewer)
	workspaceRepo.AddMember(workspace.ID, viewer.ID, domain.RoleViewer)

	_, err := workspaceService.UpdateName("auth0|viewer", workspace.ID, "Renamed")
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden for VIEWER rename, got %v", err)
	}
}

func TestUpdateWorkspaceName_Editor_Allowed(t *testing.T) {
	workspaceService, userRepo, workspaceRepo := setupWorkspaceService(t)

	userRepo.AddUser(&domain.User{AuthID: "auth0|owner", Email: "owner@example.com"})
	workspace, _ := workspaceService.Create("auth0|owner", "Team", "")

	editor := &domain.User{AuthID: "auth0|editor", Email: "editor@example.com"}
	userRepo.AddUser(editor)
	workspaceRepo.AddMember(workspace.ID, editor.ID, domain.RoleEditor)

	updated, err := workspaceService.UpdateName("auth0|editor", workspace.ID, "Renamed")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Expected name 'Renamed', got %s", updated.Name)
	}
}

func TestDeleteWorkspace_Editor_Forbidden(t *testing.T) {
	workspaceService, userRepo, workspaceRepo := setupWorkspaceService(t)

	userRepo.AddUser(&domain.User{AuthID: "auth0|owner", Email: "owner@example.com"})
	workspace, _ := workspaceService.Create("auth0|owner", "Team", "")

	editor := &domain.User{AuthID: "auth0|editor", Email: "editor@example.com"}
	userRepo.AddUser(editor)
	workspaceRepo.AddMember(workspace.ID, editor.ID, domain.RoleEditor)

	err := workspaceService.Delete("auth0|editor", workspace.ID)
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden for EDITOR delete, got %v", err)
	}
}

func TestDeleteWorkspace_Owner_Succeeds(t *testing.T) {
	workspaceService, userRepo, workspaceRepo := setupWorkspaceService(t)

	userRepo.AddUser(&domain.User{AuthID: "auth0|owner", Email: "owner@example.com"})
	workspace, _ := workspaceService.Create("auth0|owner", "Team", "")

	if err := workspaceService.Delete("auth0|owner", workspace.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := workspaceRepo.GetByID(workspace.ID); err != domain.ErrWorkspaceNotFound {
		t.Errorf("Expected workspace to be gone, got %v", err)
	}
}

func TestListWorkspaces_OnlyMemberships(t *testing.T) {
	workspaceService, userRepo, _ := setupWorkspaceService(t)

	userRepo.AddUser(&domain.User{AuthID: "auth0|a", Email: "a@example.com"})
	userRepo.AddUser(&domain.User{AuthID: "auth0|b", Email: "b@example.com"})

	if _, err := workspaceService.Create("auth0|a", "A's Team", ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := workspaceService.Create("auth0|b", "B's Team", ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	workspaces, err := workspaceService.ListForUser("auth0|a")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(workspaces) != 1 {
		t.Fatalf("Expected 1 workspace, got %d", len(workspaces))
	}
	if workspaces[0].Name != "A's Team" {
		t.Errorf("Expected only A's workspace, got %s", workspaces[0].Name)
	}
}
