package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists generated image bytes and returns a publicly servable URL.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore writes files under baseDir. The HTTP server mounts baseDir as
// a static route so the returned URLs resolve.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *LocalStore) Put(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", name, err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, name), nil
}
