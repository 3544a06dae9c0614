package repositories

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// HookMarkerRepository persists which organizations already had their webhook requested.
// Markers are never cleared.
type HookMarkerRepository interface {
	IsMarked(ctx context.Context, org string) (bool, error)
	// Mark sets the marker of org. It reports false when the marker was already set.
	Mark(ctx context.Context, org string) (bool, error)
}

// HookMarkerProvider opens the marker store selected by the settings.
// The returned function releases the store.
type HookMarkerProvider interface {
	Open(ctx context.Context, settings entities.MarkerSettings) (HookMarkerRepository, func(), error)
}
