package memory

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// SourceOwnerRepository keeps the tracked source owners in memory, in insertion order.
type SourceOwnerRepository struct {
	mu     sync.RWMutex
	names  []string
	owners map[string]entities.SourceOwner
}

var _ repositories.SourceOwnerRepository = (*SourceOwnerRepository)(nil)

func NewSourceOwnerRepository() *SourceOwnerRepository {
	return &SourceOwnerRepository{owners: make(map[string]entities.SourceOwner)}
}

// Load replaces the content of the repository.
func (it *SourceOwnerRepository) Load(owners []entities.SourceOwner) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.names = make([]string, 0, len(owners))
	it.owners = make(map[string]entities.SourceOwner, len(owners))
	for _, owner := range owners {
		if _, exists := it.owners[owner.Name]; !exists {
			it.names = append(it.names, owner.Name)
		}
		it.owners[owner.Name] = owner
	}
}

func (it *SourceOwnerRepository) All(_ context.Context) ([]entities.SourceOwner, error) {
	it.mu.RLock()
	defer it.mu.RUnlock()

	owners := make([]entities.SourceOwner, 0, len(it.names))
	for _, name := range it.names {
		owners = append(owners, it.owners[name])
	}
	return owners, nil
}

func (it *SourceOwnerRepository) Get(_ context.Context, name string) (*entities.SourceOwner, error) {
	it.mu.RLock()
	defer it.mu.RUnlock()

	owner, ok := it.owners[name]
	if !ok {
		return nil, entities.ErrOwnerNotFound
	}
	return &owner, nil
}

// Save stores owner and reports whether it was not tracked before.
func (it *SourceOwnerRepository) Save(owner entities.SourceOwner) bool {
	it.mu.Lock()
	defer it.mu.Unlock()

	_, exists := it.owners[owner.Name]
	if !exists {
		it.names = append(it.names, owner.Name)
	}
	it.owners[owner.Name] = owner
	return !exists
}

// Delete removes the owner called name and returns it.
func (it *SourceOwnerRepository) Delete(name string) (*entities.SourceOwner, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()

	owner, ok := it.owners[name]
	if !ok {
		return nil, false
	}
	delete(it.owners, name)
	for i, existing := range it.names {
		if existing == name {
			it.names = append(it.names[:i], it.names[i+1:]...)
			break
		}
	}
	return &owner, true
}
