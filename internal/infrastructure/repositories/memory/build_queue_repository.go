package memory

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// BuildQueueRepository tracks which queue items are still waiting.
// An item never enqueued is considered gone.
type BuildQueueRepository struct {
	mu      sync.Mutex
	waiting map[int64]bool
}

var _ repositories.BuildQueueRepository = (*BuildQueueRepository)(nil)

func NewBuildQueueRepository() *BuildQueueRepository {
	return &BuildQueueRepository{waiting: make(map[int64]bool)}
}

// Enqueue records queueID as waiting.
func (it *BuildQueueRepository) Enqueue(queueID int64) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.waiting[queueID] = true
}

// Leave records that queueID is no longer waiting.
func (it *BuildQueueRepository) Leave(queueID int64) {
	it.mu.Lock()
	defer it.mu.Unlock()
	delete(it.waiting, queueID)
}

func (it *BuildQueueRepository) HasLeft(_ context.Context, queueID int64) bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return !it.waiting[queueID]
}
