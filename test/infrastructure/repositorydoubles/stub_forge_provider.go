//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// StubForgeProvider hands out SpyForgeRepository instances keyed by "owner" or
// "owner/repository". Unknown keys get a fresh, empty spy.
type StubForgeProvider struct {
	mu sync.Mutex

	Forges      map[string]*SpyForgeRepository
	GetErr      error
	Connections []entities.ForgeConnection
}

var _ repositories.ForgeProvider = (*StubForgeProvider)(nil)

// NewStubForgeProvider creates a provider serving the given spies.
func NewStubForgeProvider(forges map[string]*SpyForgeRepository) *StubForgeProvider {
	if forges == nil {
		forges = make(map[string]*SpyForgeRepository)
	}
	return &StubForgeProvider{Forges: forges}
}

func (p *StubForgeProvider) Get(_ string, conn entities.ForgeConnection) (repositories.ForgeRepository, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Connections = append(p.Connections, conn)
	if p.GetErr != nil {
		return nil, p.GetErr
	}
	key := conn.Owner
	if conn.Repository != "" {
		key += "/" + conn.Repository
	}
	forge, ok := p.Forges[key]
	if !ok {
		forge = &SpyForgeRepository{}
		p.Forges[key] = forge
	}
	return forge, nil
}
