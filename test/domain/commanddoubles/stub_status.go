//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// StubStatus records the build notifications it receives.
type StubStatus struct {
	mu sync.Mutex

	Enqueued   []entities.QueuedBuild
	CheckedOut []entities.Build
	Completed  []entities.Build
	Err        error
}

var _ commands.Status = (*StubStatus)(nil)

func (s *StubStatus) OnEnqueued(_ context.Context, _ *entities.Settings, item entities.QueuedBuild) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enqueued = append(s.Enqueued, item)
	return s.Err
}

func (s *StubStatus) OnCheckout(_ context.Context, _ *entities.Settings, build entities.Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CheckedOut = append(s.CheckedOut, build)
	return s.Err
}

func (s *StubStatus) OnCompleted(_ context.Context, _ *entities.Settings, build entities.Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed = append(s.Completed, build)
	return s.Err
}
