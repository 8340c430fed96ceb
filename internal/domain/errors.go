package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalError      = errors.New("internal error")
	ErrUserNotFound       = errors.New("user not found")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrPromptNotFound     = errors.New("prompt not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrNameRequired       = errors.New("name is required")
	ErrTitleRequired      = errors.New("title is required")
	ErrContentRequired    = errors.New("content is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength  = 255
	MaxTitleLength = 255
)
