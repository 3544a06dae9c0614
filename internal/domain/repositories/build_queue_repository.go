package repositories

import "context"

// BuildQueueRepository answers questions about the orchestrator's build queue.
type BuildQueueRepository interface {
	// HasLeft reports whether the queue item is no longer waiting.
	HasLeft(ctx context.Context, queueID int64) bool
}
