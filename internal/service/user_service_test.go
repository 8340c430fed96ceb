package service

import (
	"testing"

	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/testutil"
)

func strPtr(s string) *string {
	return &s
}

func TestSyncUser_NewUser_CreatesPersonalWorkspace(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	userService := NewUserService(userRepo, workspaceRepo)

	user, err := userService.SyncUser("auth0|ada", "ada@example.com", strPtr("Ada"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Errorf("Expected email 'ada@example.com', got %s", user.Email)
	}

	workspaces, _ := workspaceRepo.ListForUser(user.ID)
	if len(workspaces) != 1 {
		t.Fatalf("Expected 1 workspace, got %d", len(workspaces))
	}
	ws := workspaces[0]
	if ws.Name != "Ada's Workspace" {
		t.Errorf("Expected workspace name \"Ada's Workspace\", got %q", ws.Name)
	}
	if ws.Type != domain.WorkspaceTypePersonal {
		t.Errorf("Expected PERSONAL workspace, got %s", ws.Type)
	}

	member, err := workspaceRepo.GetMember(ws.ID, user.ID)
	if err != nil {
		t.Fatalf("Expected OWNER membership, got %v", err)
	}
	if member.Role != domain.RoleOwner {
		t.Errorf("Expected OWNER role, got %s", member.Role)
	}
}

func TestSyncUser_NewUser_WithoutName_UsesFallbackWorkspaceName(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	userService := NewUserService(userRepo, workspaceRepo)

	user, err := userService.SyncUser("auth0|anon", "anon@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	workspaces, _ := workspaceRepo.ListForUser(user.ID)
	if len(workspaces) != 1 {
		t.Fatalf("Expected 1 workspace, got %d", len(workspaces))
	}
	if workspaces[0].Name != "User's Workspace" {
		t.Errorf("Expected fallback workspace name, got %q", workspaces[0].Name)
	}
}

func TestSyncUser_ExistingUser_UpdatesProfile(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	userService := NewUserService(userRepo, workspaceRepo)

	first, err := userService.SyncUser("auth0|ada", "ada@example.com", strPtr("Ada"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := userService.SyncUser("auth0|ada", "ada@new.example.com", strPtr("Ada L."), strPtr("https://img.example.com/a.jpg"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected sync to reuse the same user row")
	}
	if second.Email != "ada@new.example.com" {
		t.Errorf("Expected refreshed email, got %s", second.Email)
	}
	if second.Name == nil || *second.Name != "Ada L." {
		t.Errorf("Expected refreshed name, got %v", second.Name)
	}

	// Re-sync must not create another workspace
	workspaces, _ := workspaceRepo.ListForUser(first.ID)
	if len(workspaces) != 1 {
		t.Errorf("Expected 1 workspace after re-sync, got %d", len(workspaces))
	}
}

func TestSyncUser_ExistingUser_AbsentFieldsKept(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	userService := NewUserService(userRepo, workspaceRepo)

	_, err := userService.SyncUser("auth0|ada", "ada@example.com", strPtr("Ada"), strPtr("https://img.example.com/a.jpg"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A token without profile claims must not wipe the stored fields
	second, err := userService.SyncUser("auth0|ada", "ada@example.com", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if second.Name == nil || *second.Name != "Ada" {
		t.Errorf("Expected stored name kept, got %v", second.Name)
	}
	if second.ImageURL == nil || *second.ImageURL != "https://img.example.com/a.jpg" {
		t.Errorf("Expected stored image URL kept, got %v", second.ImageURL)
	}
}

func TestSyncUser_ExistingUserWithoutWorkspace_Reprovisions(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userService := NewUserService(userRepo, workspaceRepo)

	// User row exists but owns no workspace
	userRepo.AddUser(&domain.User{AuthID: "auth0|old", Email: "old@example.com", Name: strPtr("Old")})

	user, err := userService.SyncUser("auth0|old", "old@example.com", strPtr("Old"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	workspaces, _ := workspaceRepo.ListForUser(user.ID)
	if len(workspaces) != 1 {
		t.Fatalf("Expected workspace to be re-provisioned, got %d", len(workspaces))
	}
	if workspaces[0].Type != domain.WorkspaceTypePersonal {
		t.Errorf("Expected PERSONAL workspace, got %s", workspaces[0].Type)
	}
}

func TestGetByAuthID_NotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userService := NewUserService(userRepo, workspaceRepo)

	_, err := userService.GetByAuthID("auth0|ghost")
	if err != domain.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
