package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/testutil"
)

type collectionFixture struct {
	service       *CollectionService
	promptService *PromptService
	promptRepo    *testutil.MockPromptRepository
	userRepo      *testutil.MockUserRepository
	workspaceID   uuid.UUID
}

func setupCollectionService(t *testing.T) *collectionFixture {
	t.Helper()
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	workspaceRepo.LinkUsers(userRepo)
	promptRepo := testutil.NewMockPromptRepository()
	collectionRepo := testutil.NewMockCollectionRepository()
	collectionRepo.Prompts = promptRepo
	access := NewAccessService(userRepo, workspaceRepo)

	owner := &domain.User{AuthID: "auth0|owner", Email: "owner@example.com"}
	userRepo.AddUser(owner)
	workspace, _ := workspaceRepo.CreateWithOwner(&domain.Workspace{Name: "Team", Type: domain.WorkspaceTypeTeam, OwnerID: owner.ID})

	viewer := &domain.User{AuthID: "auth0|viewer", Email: "viewer@example.com"}
	userRepo.AddUser(viewer)
	workspaceRepo.AddMember(workspace.ID, viewer.ID, domain.RoleViewer)

	return &collectionFixture{
		service:       NewCollectionService(collectionRepo, access),
		promptService: NewPromptService(promptRepo, access),
		promptRepo:    promptRepo,
		userRepo:      userRepo,
		workspaceID:   workspace.ID,
	}
}

func TestCreateCollection_Success(t *testing.T) {
	f := setupCollectionService(t)

	collection, err := f.service.Create("auth0|owner", f.workspaceID, "Production", strPtr("Live prompts"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if collection.Name != "Production" {
		t.Errorf("Expected name 'Production', got %s", collection.Name)
	}
	if collection.WorkspaceID != f.workspaceID {
		t.Errorf("Expected collection in workspace %s", f.workspaceID)
	}
}

func TestCreateCollection_ViewerAllowed(t *testing.T) {
	f := setupCollectionService(t)

	// Collection writes only require membership, unlike prompt writes
	_, err := f.service.Create("auth0|viewer", f.workspaceID, "Drafts", nil)
	if err != nil {
		t.Errorf("Expected VIEWER to create collections, got %v", err)
	}
}

func TestCreateCollection_EmptyName(t *testing.T) {
	f := setupCollectionService(t)

	_, err := f.service.Create("auth0|owner", f.workspaceID, "", nil)
	if err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateCollection_NonMember_Forbidden(t *testing.T) {
	f := setupCollectionService(t)
	f.userRepo.AddUser(&domain.User{AuthID: "auth0|stranger", Email: "stranger@example.com"})

	_, err := f.service.Create("auth0|stranger", f.workspaceID, "Sneaky", nil)
	if err != domain.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestUpdateCollection_PartialUpdate(t *testing.T) {
	f := setupCollectionService(t)
	collection, _ := f.service.Create("auth0|owner", f.workspaceID, "Old", strPtr("Keep me"))

	updated, err := f.service.Update("auth0|owner", collection.ID, strPtr("New"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("Expected name 'New', got %s", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "Keep me" {
		t.Errorf("Expected description untouched, got %v", updated.Description)
	}
}

func TestUpdateCollection_EmptyNameRejected(t *testing.T) {
	f := setupCollectionService(t)
	collection, _ := f.service.Create("auth0|owner", f.workspaceID, "Named", nil)

	_, err := f.service.Update("auth0|owner", collection.ID, strPtr(""), nil)
	if err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestDeleteCollection_DetachesPrompts(t *testing.T) {
	f := setupCollectionService(t)
	collection, _ := f.service.Create("auth0|owner", f.workspaceID, "Doomed", nil)

	prompt, err := f.promptService.Create("auth0|owner", CreatePromptInput{
		WorkspaceID:  f.workspaceID,
		CollectionID: &collection.ID,
		Title:        "Survivor",
		Content:      "text",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := f.service.Delete("auth0|owner", collection.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	survivor, err := f.promptRepo.GetByID(prompt.ID)
	if err != nil {
		t.Fatalf("Expected prompt to survive, got %v", err)
	}
	if survivor.CollectionID != nil {
		t.Errorf("Expected collection reference cleared, got %v", survivor.CollectionID)
	}
}

func TestGetCollection_NotFound(t *testing.T) {
	f := setupCollectionService(t)

	_, err := f.service.Get("auth0|owner", uuid.New())
	if err != domain.ErrCollectionNotFound {
		t.Errorf("Expected ErrCollectionNotFound, got %v", err)
	}
}

func TestListCollections_OrderedByName(t *testing.T) {
	f := setupCollectionService(t)
	f.service.Create("auth0|owner", f.workspaceID, "Zed", nil)
	f.service.Create("auth0|owner", f.workspaceID, "Alpha", nil)

	collections, err := f.service.List("auth0|viewer", f.workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(collections) != 2 {
		t.Fatalf("Expected 2 collections, got %d", len(collections))
	}
	if collections[0].Name != "Alpha" {
		t.Errorf("Expected name-ascending order, got %s first", collections[0].Name)
	}
}
