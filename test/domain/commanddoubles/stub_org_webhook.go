//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// StubOrgWebhook records the navigators it was asked to handle.
type StubOrgWebhook struct {
	mu sync.Mutex

	Owners []string
	Err    error
}

var _ commands.OrgWebhook = (*StubOrgWebhook)(nil)

func (s *StubOrgWebhook) Execute(
	_ context.Context,
	_ *entities.Settings,
	_ repositories.HookMarkerRepository,
	navigator entities.Navigator,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Owners = append(s.Owners, navigator.Owner)
	return s.Err
}
