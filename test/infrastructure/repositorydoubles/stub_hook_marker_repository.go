//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// StubHookMarkerRepository is an in-memory marker store.
type StubHookMarkerRepository struct {
	mu sync.Mutex

	Marked      map[string]bool
	IsMarkedErr error
	MarkErr     error
	MarkCalls   []string
}

var _ repositories.HookMarkerRepository = (*StubHookMarkerRepository)(nil)

func NewStubHookMarkerRepository() *StubHookMarkerRepository {
	return &StubHookMarkerRepository{Marked: make(map[string]bool)}
}

func (s *StubHookMarkerRepository) IsMarked(_ context.Context, org string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Marked[org], s.IsMarkedErr
}

func (s *StubHookMarkerRepository) Mark(_ context.Context, org string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.MarkCalls = append(s.MarkCalls, org)
	if s.MarkErr != nil {
		return false, s.MarkErr
	}
	if s.Marked[org] {
		return false, nil
	}
	s.Marked[org] = true
	return true, nil
}
