package repositories

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// SourceOwnerRepository enumerates the items that own tracked sources.
type SourceOwnerRepository interface {
	All(ctx context.Context) ([]entities.SourceOwner, error)
	// Get returns entities.ErrOwnerNotFound when name is not tracked.
	Get(ctx context.Context, name string) (*entities.SourceOwner, error)
}
