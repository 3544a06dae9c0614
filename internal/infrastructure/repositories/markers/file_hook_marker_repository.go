package markers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

const markerDirectory = "gitea-webhooks"

// FileHookMarkerRepository keeps one marker file per organization below root.
type FileHookMarkerRepository struct {
	root string
}

var _ repositories.HookMarkerRepository = (*FileHookMarkerRepository)(nil)

// NewFileHookMarkerRepository creates a marker store rooted at root.
func NewFileHookMarkerRepository(root string) *FileHookMarkerRepository {
	return &FileHookMarkerRepository{root: root}
}

func (it *FileHookMarkerRepository) markerPath(org string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(org)
	return filepath.Join(it.root, markerDirectory, "org-hook."+name)
}

func (it *FileHookMarkerRepository) IsMarked(_ context.Context, org string) (bool, error) {
	_, err := os.Stat(it.markerPath(org))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to read marker of %q: %w", org, err)
}

func (it *FileHookMarkerRepository) Mark(_ context.Context, org string) (bool, error) {
	path := it.markerPath(org)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fmt.Errorf("failed to create marker directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to write marker of %q: %w", org, err)
	}
	defer file.Close()

	if _, err = file.WriteString(time.Now().UTC().Format(time.RFC3339)); err != nil {
		return true, fmt.Errorf("failed to write marker of %q: %w", org, err)
	}
	return true, nil
}
