package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Storage keeps batch workspaces as folders under a single root.
type Storage struct {
	basePath string
}

// New creates the root folder when missing. An empty basePath resolves to
// <tmp>/BCS.
func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = DefaultRoot()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func DefaultRoot() string {
	return filepath.Join(os.TempDir(), "BCS")
}

func (s *Storage) Root() string {
	return s.basePath
}

func (s *Storage) CreateWorkspace(_ context.Context, folderName string) (string, error) {
	if folderName == "" || folderName != filepath.Base(folderName) {
		return "", fmt.Errorf("invalid workspace folder name %q", folderName)
	}
	path := filepath.Join(s.basePath, folderName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create workspace dir: %w", err)
	}
	return path, nil
}

func (s *Storage) Save(_ context.Context, fullPath string, data io.Reader) error {
	if err := s.ensureInside(fullPath); err != nil {
		return err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Storage) Stat(_ context.Context, fullPath string) (int64, bool, error) {
	info, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return 0, false, nil
	}
	return info.Size(), true, nil
}

func (s *Storage) ensureInside(fullPath string) error {
	rel, err := filepath.Rel(s.basePath, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the workspace root", fullPath)
	}
	return nil
}
