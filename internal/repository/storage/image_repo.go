package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
)

// ImageRepository defines the interface for image storage operations
type ImageRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Open(ctx context.Context, objectPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectPath string) error
}

// LocalImageRepository implements ImageRepository on a local directory
type LocalImageRepository struct {
	dir string
}

// NewLocalImageRepository creates the directory if needed
func NewLocalImageRepository(dir string) (*LocalImageRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalImageRepository{dir: dir}, nil
}

// Upload writes the object to a temporary file and renames it into place
func (r *LocalImageRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	target, err := r.resolve(objectPath)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(r.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return objectPath, nil
}

// Open returns a reader over the stored object
func (r *LocalImageRepository) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	target, err := r.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewNotFoundError("image", objectPath, "image %s not found", objectPath)
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Delete removes the object. Missing objects are not an error.
func (r *LocalImageRepository) Delete(ctx context.Context, objectPath string) error {
	target, err := r.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// resolve maps an object key to a file directly inside dir
func (r *LocalImageRepository) resolve(objectPath string) (string, error) {
	if !ValidObjectPath(objectPath) {
		return "", domain.NewValidationError("image", fmt.Sprintf("invalid image name %q", objectPath))
	}
	return filepath.Join(r.dir, objectPath), nil
}

// ValidObjectPath reports whether the key is a plain file name
func ValidObjectPath(objectPath string) bool {
	if objectPath == "" || objectPath == "." || objectPath == ".." {
		return false
	}
	return filepath.Base(objectPath) == objectPath && objectPath[0] != '.'
}
