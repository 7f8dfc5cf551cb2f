package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/liamoar/CloudKitchen-sub001/utils"
)

// LocalImageService implements ImageService on the local filesystem. It is
// the fallback when no S3 bucket is configured, for single-node deployments.
type LocalImageService struct {
	uploadDir string
}

// NewLocalImageService creates an image service storing files under uploadDir
func NewLocalImageService(uploadDir string) *LocalImageService {
	return &LocalImageService{uploadDir: uploadDir}
}

// UploadImage validates and saves an image file to the upload directory
func (l *LocalImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, l.uploadDir)
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return filename, nil
}

// GetImageURL returns the serving path for a stored image
func (l *LocalImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return "/uploads/" + imageKey, nil
}

// DeleteImage removes an image from the upload directory
func (l *LocalImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	fullPath := filepath.Join(l.uploadDir, filepath.Base(imageKey))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
