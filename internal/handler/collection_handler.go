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

// CollectionHandler handles collection-related HTTP requests
type CollectionHandler struct {
	collectionService *service.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// CreateCollectionRequest represents the create collection request body
type CreateCollectionRequest struct {
	WorkspaceID string  `json:"workspaceId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateCollectionRequest represents the partial update request body
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateCollection handles POST /api/v1/collections
func (h *CollectionHandler) CreateCollection(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateCollectionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "workspaceId", Message: "Must be a valid workspace ID"},
		})
	}

	collection, err := h.collectionService.Create(authID, workspaceID, req.Name, req.Description)
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
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to create collection")
		return NewInternalError(c, "Failed to create collection")
	}

	log.Info().Str("collection_id", collection.ID.String()).Str("workspace_id", workspaceID.String()).Msg("Collection created")
	return c.JSON(http.StatusCreated, collection)
}

// ListCollections handles GET /api/v1/collections
func (h *CollectionHandler) ListCollections(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	workspaceID, err := uuid.Parse(c.QueryParam("workspaceId"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "workspaceId", Message: "Must be a valid workspace ID"},
		})
	}

	collections, err := h.collectionService.List(authID, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to list collections")
		return NewInternalError(c, "Failed to list collections")
	}

	return c.JSON(http.StatusOK, collections)
}

// GetCollection handles GET /api/v1/collections/:id
func (h *CollectionHandler) GetCollection(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid collection ID", nil)
	}

	collection, err := h.collectionService.Get(authID, id)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return NewNotFoundError(c, "Collection not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("collection_id", id.String()).Msg("Failed to get collection")
		return NewInternalError(c, "Failed to get collection")
	}

	return c.JSON(http.StatusOK, collection)
}

// UpdateCollection handles PATCH /api/v1/collections/:id
func (h *CollectionHandler) UpdateCollection(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid collection ID", nil)
	}

	var req UpdateCollectionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	collection, err := h.collectionService.Update(authID, id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must not be empty"},
			})
		}
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return NewNotFoundError(c, "Collection not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("collection_id", id.String()).Msg("Failed to update collection")
		return NewInternalError(c, "Failed to update collection")
	}

	log.Info().Str("collection_id", id.String()).Msg("Collection updated")
	return c.JSON(http.StatusOK, collection)
}

// DeleteCollection handles DELETE /api/v1/collections/:id
func (h *CollectionHandler) DeleteCollection(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid collection ID", nil)
	}

	if err := h.collectionService.Delete(authID, id); err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return NewNotFoundError(c, "Collection not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("collection_id", id.String()).Msg("Failed to delete collection")
		return NewInternalError(c, "Failed to delete collection")
	}

	log.Info().Str("collection_id", id.String()).Msg("Collection deleted")
	return c.NoContent(http.StatusNoContent)
}
