package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/middleware"
	"github.com/prompttracker/prompttracker-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// PromptHandler handles prompt, version and run HTTP requests
type PromptHandler struct {
	promptService *service.PromptService
}

// NewPromptHandler creates a new PromptHandler
func NewPromptHandler(promptService *service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// CreatePromptRequest represents the create prompt request body
type CreatePromptRequest struct {
	WorkspaceID  string   `json:"workspaceId"`
	CollectionID *string  `json:"collectionId,omitempty"`
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags,omitempty"`
}

// UpdatePromptRequest represents the partial update request body. A nil Tags
// field leaves the tag set alone; an empty array clears it. CollectionID is
// raw JSON so an explicit null (detach) is distinguishable from an omitted
// field (leave unchanged).
type UpdatePromptRequest struct {
	Title        *string         `json:"title,omitempty"`
	Description  *string         `json:"description,omitempty"`
	CollectionID json.RawMessage `json:"collectionId,omitempty"`
	Tags         *[]string       `json:"tags,omitempty"`
}

// CreateVersionRequest represents the create version request body
type CreateVersionRequest struct {
	Content string  `json:"content"`
	Model   *string `json:"model,omitempty"`
}

// LogRunRequest represents the log run request body
type LogRunRequest struct {
	Rating         *int32  `json:"rating,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	UsedModel      *string `json:"usedModel,omitempty"`
	ResponseLength *int32  `json:"responseLength,omitempty"`
}

// CreatePrompt handles POST /api/v1/prompts
func (h *PromptHandler) CreatePrompt(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreatePromptRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "workspaceId", Message: "Must be a valid workspace ID"},
		})
	}

	input := service.CreatePromptInput{
		WorkspaceID: workspaceID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
	}
	if req.CollectionID != nil {
		collectionID, err := uuid.Parse(*req.CollectionID)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "collectionId", Message: "Must be a valid collection ID"},
			})
		}
		input.CollectionID = &collectionID
	}

	prompt, err := h.promptService.Create(authID, input)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: "Title is required"},
			})
		}
		if errors.Is(err, domain.ErrContentRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "Content is required"},
			})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Requires OWNER or EDITOR role")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to create prompt")
		return NewInternalError(c, "Failed to create prompt")
	}

	log.Info().Str("prompt_id", prompt.ID.String()).Str("workspace_id", workspaceID.String()).Msg("Prompt created")
	return c.JSON(http.StatusCreated, prompt)
}

// ListPrompts handles GET /api/v1/prompts
func (h *PromptHandler) ListPrompts(c echo.Context) error {
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

	filter := domain.PromptFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	if raw := c.QueryParam("collectionId"); raw != "" {
		collectionID, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "collectionId", Message: "Must be a valid collection ID"},
			})
		}
		filter.CollectionID = &collectionID
	}
	// Accepts both ?tags=a&tags=b and ?tags=a,b
	for _, raw := range c.QueryParams()["tags"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.TagNames = append(filter.TagNames, name)
			}
		}
	}

	prompts, err := h.promptService.List(authID, workspaceID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to list prompts")
		return NewInternalError(c, "Failed to list prompts")
	}

	return c.JSON(http.StatusOK, prompts)
}

// GetPrompt handles GET /api/v1/prompts/:id
func (h *PromptHandler) GetPrompt(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid prompt ID", nil)
	}

	prompt, err := h.promptService.Get(authID, id)
	if err != nil {
		if errors.Is(err, domain.ErrPromptNotFound) {
			return NewNotFoundError(c, "Prompt not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("prompt_id", id.String()).Msg("Failed to get prompt")
		return NewInternalError(c, "Failed to get prompt")
	}

	return c.JSON(http.StatusOK, prompt)
}

// UpdatePrompt handles PATCH /api/v1/prompts/:id
func (h *PromptHandler) UpdatePrompt(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid prompt ID", nil)
	}

	var req UpdatePromptRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	params := domain.UpdatePromptParams{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if len(req.CollectionID) > 0 {
		params.CollectionIDSet = true
		if string(req.CollectionID) != "null" {
			var raw string
			if err := json.Unmarshal(req.CollectionID, &raw); err != nil {
				return NewValidationError(c, "Validation failed", []ValidationError{
					{Field: "collectionId", Message: "Must be a valid collection ID"},
				})
			}
			collectionID, err := uuid.Parse(raw)
			if err != nil {
				return NewValidationError(c, "Validation failed", []ValidationError{
					{Field: "collectionId", Message: "Must be a valid collection ID"},
				})
			}
			params.CollectionID = &collectionID
		}
	}

	prompt, err := h.promptService.Update(authID, id, params)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "title", Message: "Title must not be empty"},
			})
		}
		if errors.Is(err, domain.ErrPromptNotFound) {
			return NewNotFoundError(c, "Prompt not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Requires OWNER or EDITOR role")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("prompt_id", id.String()).Msg("Failed to update prompt")
		return NewInternalError(c, "Failed to update prompt")
	}

	log.Info().Str("prompt_id", id.String()).Msg("Prompt updated")
	return c.JSON(http.StatusOK, prompt)
}

// DeletePrompt handles DELETE /api/v1/prompts/:id
func (h *PromptHandler) DeletePrompt(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid prompt ID", nil)
	}

	if _, err := h.promptService.Delete(authID, id); err != nil {
		if errors.Is(err, domain.ErrPromptNotFound) {
			return NewNotFoundError(c, "Prompt not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Requires OWNER or EDITOR role")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("prompt_id", id.String()).Msg("Failed to delete prompt")
		return NewInternalError(c, "Failed to delete prompt")
	}

	log.Info().Str("prompt_id", id.String()).Msg("Prompt deleted")
	return c.NoContent(http.StatusNoContent)
}

// CreateVersion handles POST /api/v1/prompts/:id/versions
func (h *PromptHandler) CreateVersion(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid prompt ID", nil)
	}

	var req CreateVersionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	version, err := h.promptService.CreateVersion(authID, promptID, req.Content, req.Model)
	if err != nil {
		if errors.Is(err, domain.ErrContentRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "content", Message: "Content is required"},
			})
		}
		if errors.Is(err, domain.ErrPromptNotFound) {
			return NewNotFoundError(c, "Prompt not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Requires OWNER or EDITOR role")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("prompt_id", promptID.String()).Msg("Failed to create version")
		return NewInternalError(c, "Failed to create version")
	}

	log.Info().Str("prompt_id", promptID.String()).Int32("version", version.VersionNumber).Msg("Version created")
	return c.JSON(http.StatusCreated, version)
}

// LogRun handles POST /api/v1/prompts/versions/:id/run
func (h *PromptHandler) LogRun(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid version ID", nil)
	}

	var req LogRunRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	run, err := h.promptService.LogRun(authID, versionID, service.LogRunInput{
		Rating:         req.Rating,
		Notes:          req.Notes,
		UsedModel:      req.UsedModel,
		ResponseLength: req.ResponseLength,
	})
	if err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			return NewNotFoundError(c, "Version not found")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Not a member of this workspace")
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User not synced")
		}
		log.Error().Err(err).Str("version_id", versionID.String()).Msg("Failed to log run")
		return NewInternalError(c, "Failed to log run")
	}

	return c.JSON(http.StatusCreated, run)
}
