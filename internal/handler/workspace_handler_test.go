package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/service"
	"github.com/prompttracker/prompttracker-backend/internal/testutil"
)

func newWorkspaceHandlerFixture() (*WorkspaceHandler, *testutil.MockUserRepository, *testutil.MockWorkspaceRepository) {
	userRepo := testutil.NewMockUserRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	userRepo.WorkspaceRepo = workspaceRepo
	workspaceRepo.LinkUsers(userRepo)
	access := service.NewAccessService(userRepo, workspaceRepo)
	workspaceService := service.NewWorkspaceService(workspaceRepo, access)
	return NewWorkspaceHandler(workspaceService), userRepo, workspaceRepo
}

func TestCreateWorkspace_Handler_Success(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newWorkspaceHandlerFixture()
	userRepo.AddUser(&domain.User{AuthID: "auth0|ada", Email: "ada@example.com"})

	body := `{"name":"Research"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|ada", "ada@example.com", "Ada", "")

	if err := handler.CreateWorkspace(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Workspace
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Research" {
		t.Errorf("Expected name 'Research', got %s", response.Name)
	}
	if response.Type != domain.WorkspaceTypeTeam {
		t.Errorf("Expected TEAM type, got %s", response.Type)
	}
}

func TestCreateWorkspace_Handler_EmptyName(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newWorkspaceHandlerFixture()
	userRepo.AddUser(&domain.User{AuthID: "auth0|ada", Email: "ada@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces", strings.NewReader(`{"name":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|ada", "ada@example.com", "Ada", "")

	if err := handler.CreateWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetWorkspace_Handler_Forbidden(t *testing.T) {
	e := echo.New()
	handler, userRepo, workspaceRepo := newWorkspaceHandlerFixture()

	owner := &domain.User{AuthID: "auth0|owner", Email: "owner@example.com"}
	userRepo.AddUser(owner)
	workspace, _ := workspaceRepo.CreateWithOwner(&domain.Workspace{Name: "Team", Type: domain.WorkspaceTypeTeam, OwnerID: owner.ID})

	userRepo.AddUser(&domain.User{AuthID: "auth0|stranger", Email: "stranger@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+workspace.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupAuthContext(c, "auth0|stranger", "stranger@example.com", "", "")

	if err := handler.GetWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestGetWorkspace_Handler_InvalidID(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newWorkspaceHandlerFixture()
	userRepo.AddUser(&domain.User{AuthID: "auth0|ada", Email: "ada@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	setupAuthContext(c, "auth0|ada", "ada@example.com", "", "")

	if err := handler.GetWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteWorkspace_Handler_EditorForbidden(t *testing.T) {
	e := echo.New()
	handler, userRepo, workspaceRepo := newWorkspaceHandlerFixture()

	owner := &domain.User{AuthID: "auth0|owner", Email: "owner@example.com"}
	userRepo.AddUser(owner)
	workspace, _ := workspaceRepo.CreateWithOwner(&domain.Workspace{Name: "Team", Type: domain.WorkspaceTypeTeam, OwnerID: owner.ID})

	editor := &domain.User{AuthID: "auth0|editor", Email: "editor@example.com"}
	userRepo.AddUser(editor)
	workspaceRepo.AddMember(workspace.ID, editor.ID, domain.RoleEditor)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/"+workspace.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupAuthContext(c, "auth0|editor", "editor@example.com", "", "")

	if err := handler.DeleteWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteWorkspace_Handler_OwnerSuccess(t *testing.T) {
	e := echo.New()
	handler, userRepo, workspaceRepo := newWorkspaceHandlerFixture()

	owner := &domain.User{AuthID: "auth0|owner", Email: "owner@example.com"}
	userRepo.AddUser(owner)
	workspace, _ := workspaceRepo.CreateWithOwner(&domain.Workspace{Name: "Team", Type: domain.WorkspaceTypeTeam, OwnerID: owner.ID})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/"+workspace.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupAuthContext(c, "auth0|owner", "owner@example.com", "", "")

	if err := handler.DeleteWorkspace(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
