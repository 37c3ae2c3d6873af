package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrms/backend/internal/infrastructure/config"
)

// LocalFileStorage stores files on the local filesystem. Suitable for
// single-instance deployments; multi-instance setups should use S3.
type LocalFileStorage struct {
	dir     string
	baseURL string
}

// NewLocalFileStorage creates a disk-backed storage rooted at cfg.Dir.
func NewLocalFileStorage(cfg config.LocalStorageConfig) (*LocalFileStorage, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local storage directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalFileStorage{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Save writes the file to disk and returns its public URL.
func (s *LocalFileStorage) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", key, err)
	}

	return s.URL(key), nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *LocalFileStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	fullPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a file is present.
func (s *LocalFileStorage) Exists(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	fullPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// URL returns the public URL for a key.
func (s *LocalFileStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

// Dir returns the storage root directory.
func (s *LocalFileStorage) Dir() string {
	return s.dir
}

var _ FileStorage = (*LocalFileStorage)(nil)
