package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
	"github.com/prompttracker/prompttracker-backend/internal/middleware"
	"github.com/prompttracker/prompttracker-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService   *service.UserService
	avatarService *service.AvatarService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, avatarService *service.AvatarService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		avatarService: avatarService,
	}
}

// SyncUserRequest represents the sync request body. All fields are optional;
// token claims take precedence when present.
type SyncUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// AvatarUploadResponse represents the avatar upload response
type AvatarUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// SyncUser handles POST /api/v1/users/sync
func (h *UserHandler) SyncUser(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SyncUserRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	email := ""
	var name, imageURL *string
	if claims := middleware.GetCustomClaims(c); claims != nil {
		email = claims.Email
		if claims.Name != "" {
			n := claims.Name
			name = &n
		}
		if claims.Picture != "" {
			p := claims.Picture
			imageURL = &p
		}
	}
	if email == "" && req.Email != nil {
		email = *req.Email
	}
	if name == nil {
		name = req.Name
	}
	if imageURL == nil {
		imageURL = req.ImageURL
	}

	if email == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "email", Message: "Email is required"},
		})
	}

	user, err := h.userService.SyncUser(authID, email, name, imageURL)
	if err != nil {
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to sync user")
		return NewInternalError(c, "Failed to sync user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.userService.GetByAuthID(authID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to get user")
		return NewInternalError(c, "Failed to get user")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UploadAvatar handles POST /api/v1/users/me/avatar
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	authID := middleware.GetAuthID(c)
	if authID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if !h.avatarService.IsEnabled() {
		return NewNotImplementedError(c, "Avatar storage is not configured")
	}

	user, err := h.userService.GetByAuthID(authID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("auth_id", authID).Msg("Failed to get user")
		return NewInternalError(c, "Failed to get user")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return NewValidationError(c, "Avatar file is required", []ValidationError{
			{Field: "avatar", Message: "Must be a multipart file field named 'avatar'"},
		})
	}
	if fileHeader.Size > service.MaxAvatarSize {
		return NewValidationError(c, "Avatar file is too large", []ValidationError{
			{Field: "avatar", Message: "Must be 5MB or smaller"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open avatar upload")
		return NewInternalError(c, "Failed to read avatar")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read avatar upload")
		return NewInternalError(c, "Failed to read avatar")
	}
	if int64(len(data)) > service.MaxAvatarSize {
		return NewValidationError(c, "Avatar file is too large", []ValidationError{
			{Field: "avatar", Message: "Must be 5MB or smaller"},
		})
	}

	url, err := h.avatarService.ProcessAndUpload(c.Request().Context(), user.ID, data, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAvatarFormat) {
			return NewValidationError(c, "Unsupported avatar format", []ValidationError{
				{Field: "avatar", Message: "Must be a JPEG, PNG or WebP image"},
			})
		}
		if errors.Is(err, service.ErrAvatarTooSmall) {
			return NewValidationError(c, "Avatar image is too small", []ValidationError{
				{Field: "avatar", Message: "Must be at least 50x50 pixels"},
			})
		}
		if errors.Is(err, service.ErrInvalidAvatarData) {
			return NewValidationError(c, "Avatar image could not be decoded", nil)
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to upload avatar")
		return NewInternalError(c, "Failed to upload avatar")
	}

	updated, err := h.userService.UpdateImageURL(user.ID, url)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to save avatar URL")
		return NewInternalError(c, "Failed to save avatar URL")
	}

	log.Info().Str("user_id", updated.ID.String()).Msg("Avatar uploaded")
	return c.JSON(http.StatusOK, AvatarUploadResponse{ImageURL: url})
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Name:     user.Name,
		ImageURL: user.ImageURL,
	}
}
