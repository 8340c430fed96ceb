package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/middleware"
	"github.com/prompttracker/prompttracker-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// CreateWorkspaceRequest represents the create workspace request body
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// UpdateWorkspaceRequest represents the rename workspace request body
type UpdateWorkspaceRequest struct {
	Name string `json:"name"`
}

// CreateWorkspace handles POST /api/v1/workspaces
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspace, err := h.workspaceService.Create(authID, req.Name, domain.WorkspaceType(req.Type))
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to create workspace")
		return NewInternalError(c, "Failed to create workspace")
	}

	log.Info().Str("workspace_id", workspace.ID.String()).Str("name", workspace.Name).Msg("Workspace created")
	return c.JSON(http.StatusCreated, workspace)
}

// ListWorkspaces handles GET /api/v1/workspaces
func (h *WorkspaceHandler) ListWorkspaces(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workspaces, err := h.workspaceService.ListForUser(authID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to list workspaces")
		return NewInternalError(c, "Failed to list workspaces")
	}

	return c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace handles GET /api/v1/workspaces/:id
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	workspace, err := h.workspaceService.Get(authID, id)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", id.String()).Msg("Failed to get workspace")
		return NewInternalError(c, "Failed to get workspace")
	}

	return c.JSON(http.StatusOK, workspace)
}

// UpdateWorkspace handles PATCH /api/v1/workspaces/:id
func (h *WorkspaceHandler) UpdateWorkspace(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	var req UpdateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspace, err := h.workspaceService.UpdateName(authID, id, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Requires OWNER or EDITOR role")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", id.String()).Msg("Failed to update workspace")
		return NewInternalError(c, "Failed to update workspace")
	}

	log.Info().Str("workspace_id", id.String()).Str("name", workspace.Name).Msg("Workspace renamed")
	return c.JSON(http.StatusOK, workspace)
}

// DeleteWorkspace handles DELETE /api/v1/workspaces/:id
func (h *WorkspaceHandler) DeleteWorkspace(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid workspace ID", nil)
	}

	if err := h.workspaceService.Delete(authID, id); err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return NewNotFoundError(c, "Workspace not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Requires OWNER role")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", id.String()).Msg("Failed to delete workspace")
		return NewInternalError(c, "Failed to delete workspace")
	}

	log.Info().Str("workspace_id", id.String()).Msg("Workspace deleted")
	return c.NoContent(http.StatusNoContent)
}
