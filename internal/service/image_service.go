package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/dafibh/addressbook/addressbook-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MinImageWidth  = 50
	MinImageHeight = 50
	ThumbnailWidth = 200
	DisplayWidth   = 800
	JPEGQuality    = 85

	thumbSuffix = "_thumb"
)

var (
	ErrImageTooLarge             = domain.NewValidationError("image", "file too large. Maximum size is 5MB")
	ErrInvalidFormat             = domain.NewValidationError("image", "invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall             = domain.NewValidationError("image", "image too small. Minimum 50x50 pixels")
	ErrInvalidImageData          = domain.NewValidationError("image", "invalid image data")
	ErrInvalidImageName          = domain.NewValidationError("image", "invalid image name")
	ErrImageStorageNotConfigured = domain.NewStorageError("image storage not configured", nil)
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageService handles image processing and storage
type ImageService struct {
	storage storage.ImageRepository
}

// NewImageService creates a new ImageService
func NewImageService(storage storage.ImageRepository) *ImageService {
	return &ImageService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ImageService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// ValidateImage validates image format and size
func (s *ImageService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

// validateAndDecode validates the image and returns the decoded image
func (s *ImageService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// ProcessAndUpload resizes the image into its display and thumbnail variants,
// uploads both and returns the key stored on the contact.
func (s *ImageService) ProcessAndUpload(ctx context.Context, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	imageID := uuid.New().String()
	key := imageID + ".jpg"

	variants := []struct {
		objectPath string
		maxWidth   int
	}{
		{key, DisplayWidth},
		{ThumbnailKey(key), ThumbnailWidth},
	}

	uploaded := make([]string, 0, len(variants))
	for _, variant := range variants {
		processed := img
		if img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			s.cleanup(ctx, uploaded)
			return "", fmt.Errorf("failed to encode image: %w", err)
		}

		if _, err := s.storage.Upload(ctx, variant.objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			s.cleanup(ctx, uploaded)
			return "", domain.NewStorageError("failed to upload image", err)
		}
		uploaded = append(uploaded, variant.objectPath)
	}

	return key, nil
}

// cleanup removes variants uploaded before a failure
func (s *ImageService) cleanup(ctx context.Context, keys []string) {
	for _, k := range keys {
		_ = s.storage.Delete(ctx, k)
	}
}

// Open streams a stored image variant
func (s *ImageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}
	if !storage.ValidObjectPath(key) {
		return nil, ErrInvalidImageName
	}
	return s.storage.Open(ctx, key)
}

// Delete removes an image and its thumbnail
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrImageStorageNotConfigured
	}
	if !storage.ValidObjectPath(key) {
		return ErrInvalidImageName
	}
	for _, k := range []string{key, ThumbnailKey(key)} {
		if err := s.storage.Delete(ctx, k); err != nil {
			return domain.NewStorageError("failed to delete image", err)
		}
	}
	return nil
}

// ThumbnailKey returns the key of the thumbnail variant of an image
func ThumbnailKey(key string) string {
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + thumbSuffix + ext
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
