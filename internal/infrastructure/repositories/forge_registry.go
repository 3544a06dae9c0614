package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	domainRepos "github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// ForgeFactory opens a forge client for a connection.
type ForgeFactory func(conn entities.ForgeConnection) domainRepos.ForgeRepository

// ForgeRegistry manages the registered forge implementations.
type ForgeRegistry struct {
	forges map[string]ForgeFactory
}

var _ domainRepos.ForgeProvider = (*ForgeRegistry)(nil)

// NewForgeRegistry creates an empty forge registry.
func NewForgeRegistry() *ForgeRegistry {
	return &ForgeRegistry{
		forges: make(map[string]ForgeFactory),
	}
}

// Register adds a forge factory under the given type (e.g. "gitea").
func (r *ForgeRegistry) Register(forgeType string, factory ForgeFactory) {
	r.forges[forgeType] = factory
}

// Get returns a forge client of the given type bound to conn.
func (r *ForgeRegistry) Get(forgeType string, conn entities.ForgeConnection) (domainRepos.ForgeRepository, error) {
	factory, ok := r.forges[forgeType]
	if !ok {
		return nil, fmt.Errorf("unknown forge type: %q", forgeType)
	}
	return factory(conn), nil
}

// Names returns the registered forge types, sorted.
func (r *ForgeRegistry) Names() []string {
	names := make([]string, 0, len(r.forges))
	for name := range r.forges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
