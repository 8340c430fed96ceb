package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/repository/storage"
)

const (
	MaxAvatarSize   = 5 * 1024 * 1024 // 5MB
	MinAvatarWidth  = 50
	MinAvatarHeight = 50
	AvatarSize      = 256
	JPEGQuality     = 85
)

var (
	ErrAvatarTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidAvatarFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrAvatarTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidAvatarData          = errors.New("invalid image data")
	ErrAvatarStorageNotConfigured = errors.New("avatar storage not configured")
)

// allowedAvatarExtensions maps extensions to content types
var allowedAvatarExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// AvatarService validates, resizes and stores user avatars
type AvatarService struct {
	storage storage.AvatarRepository
}

// NewAvatarService creates a new AvatarService
func NewAvatarService(storage storage.AvatarRepository) *AvatarService {
	return &AvatarService{storage: storage}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *AvatarService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		return nil, ErrInvalidAvatarFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidAvatarData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinAvatarWidth || bounds.Dy() < MinAvatarHeight {
		return nil, ErrAvatarTooSmall
	}

	return img, nil
}

// ValidateAvatar validates image format, size and dimensions
func (s *AvatarService) ValidateAvatar(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

// ProcessAndUpload crops the image to a square avatar, uploads it and
// returns the stored object's URL
func (s *AvatarService) ProcessAndUpload(ctx context.Context, userID uuid.UUID, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrAvatarStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	avatar := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, avatar, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	objectPath := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.New())
	url, err := s.storage.Upload(ctx, objectPath, &buf, "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return url, nil
}
