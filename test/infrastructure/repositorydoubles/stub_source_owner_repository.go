//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// StubSourceOwnerRepository serves a fixed list of source owners.
type StubSourceOwnerRepository struct {
	Owners []entities.SourceOwner
	AllErr error
}

var _ repositories.SourceOwnerRepository = (*StubSourceOwnerRepository)(nil)

func (s *StubSourceOwnerRepository) All(_ context.Context) ([]entities.SourceOwner, error) {
	return s.Owners, s.AllErr
}

func (s *StubSourceOwnerRepository) Get(_ context.Context, name string) (*entities.SourceOwner, error) {
	for _, owner := range s.Owners {
		if owner.Name == name {
			found := owner
			return &found, nil
		}
	}
	return nil, entities.ErrOwnerNotFound
}

// StubBuildQueueRepository reports the queue items listed in Left as gone.
type StubBuildQueueRepository struct {
	Left map[int64]bool
}

var _ repositories.BuildQueueRepository = (*StubBuildQueueRepository)(nil)

func (s *StubBuildQueueRepository) HasLeft(_ context.Context, queueID int64) bool {
	return s.Left[queueID]
}
