//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// StubReindex records push events and answers with fixed heads.
type StubReindex struct {
	mu sync.Mutex

	Heads  []entities.ProposedHead
	Err    error
	Events []entities.PushEvent
}

var _ commands.Reindex = (*StubReindex)(nil)

func (s *StubReindex) Execute(
	_ context.Context,
	_ *entities.Settings,
	event entities.PushEvent,
) ([]entities.ProposedHead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return s.Heads, s.Err
}
