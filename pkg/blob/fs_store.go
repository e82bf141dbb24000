package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore implements Store on the local filesystem. Suitable for
// single-node deployments where a reverse proxy serves the directory.
type FSStore struct {
	rootDir string
	baseURL string
}

// NewFSStore creates a filesystem-backed blob store rooted at rootDir
func NewFSStore(rootDir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FSStore{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes the content under the root directory and returns its URL
func (s *FSStore) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	if len(content) == 0 {
		return "", ErrEmptyContent
	}

	key := strings.TrimLeft(path, "/")
	target := filepath.Join(s.rootDir, filepath.FromSlash(key))

	// Keep writes inside the root even if the path contains traversal.
	if rel, err := filepath.Rel(s.rootDir, target); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid blob path: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}
