//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// StubDiscover answers every navigator with the heads registered for its owner.
type StubDiscover struct {
	HeadsByOwner map[string][]entities.ProposedHead
	Err          error
	Navigators   []string
}

var _ commands.Discover = (*StubDiscover)(nil)

func (s *StubDiscover) Execute(
	_ context.Context,
	_ *entities.Settings,
	navigator entities.Navigator,
) ([]entities.ProposedHead, error) {
	s.Navigators = append(s.Navigators, navigator.Owner)
	return s.HeadsByOwner[navigator.Owner], s.Err
}

func (s *StubDiscover) RetrieveHeads(
	_ context.Context,
	_ repositories.ForgeRepository,
	identity entities.RepositoryIdentity,
	_ entities.DiscoveryFilter,
) ([]entities.ProposedHead, error) {
	return s.HeadsByOwner[identity.Owner], s.Err
}
