package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"visionguard/internal/logger"
	"visionguard/internal/models"
)

// ImageStore persists annotated analysis images for the history view.
// Filenames encode timestamp, source and alert state so a directory listing
// stays readable without the database.
type ImageStore struct {
	imagesDir string
	logger    *logger.Logger
}

func NewImageStore(imagesDir string, log *logger.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	return &ImageStore{
		imagesDir: imagesDir,
		logger:    log,
	}, nil
}

// Save writes one annotated image to disk and returns its filename, full
// path and size.
func (s *ImageStore) Save(data []byte, source string, alert models.AlertState) (string, string, int64, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s_%s.jpg", timestamp, source, alert.String())
	fullpath := filepath.Join(s.imagesDir, filename)

	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return "", "", 0, fmt.Errorf("failed to save image %s: %w", filename, err)
	}

	return filename, fullpath, int64(len(data)), nil
}

// Path returns the on-disk location for a stored filename.
func (s *ImageStore) Path(filename string) string {
	return filepath.Join(s.imagesDir, filename)
}

// Delete removes one stored image. A missing file is not an error.
func (s *ImageStore) Delete(filename string) error {
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image %s: %w", filename, err)
	}
	return nil
}

// DeleteAll clears every stored image.
func (s *ImageStore) DeleteAll() error {
	entries, err := os.ReadDir(s.imagesDir)
	if err != nil {
		return fmt.Errorf("failed to read image directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.imagesDir, entry.Name())); err != nil {
			s.logger.Error("Failed to delete image %s: %v", entry.Name(), err)
		}
	}

	return nil
}
