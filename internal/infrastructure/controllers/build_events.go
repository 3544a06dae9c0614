package controllers

import (
	"context"
	"fmt"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

const (
	phaseQueued    = "queued"
	phaseCheckout  = "checkout"
	phaseCompleted = "completed"
)

// buildEvent is a build progress notification from the CI orchestrator.
type buildEvent struct {
	Phase   string `json:"phase"`
	QueueID int64  `json:"queue_id"`
	Owner   string `json:"owner"`
	Number  int    `json:"number"`
	URL     string `json:"url"`
	Head    string `json:"head"`
	Hash    string `json:"hash"`
	Result  string `json:"result"`
}

func (e buildEvent) build() entities.Build {
	build := entities.Build{
		Number:    e.Number,
		URL:       e.URL,
		OwnerName: e.Owner,
		Result:    entities.BuildResult(e.Result),
	}
	if e.Hash != "" {
		build.Revision = entities.BranchRevision{Head: e.Head, Hash: e.Hash}
	}
	return build
}

func dispatchBuildEvent(
	ctx context.Context,
	settings *entities.Settings,
	status commands.Status,
	queue *memory.BuildQueueRepository,
	event buildEvent,
) error {
	if event.Owner == "" {
		return fmt.Errorf("%w: owner is required", errInvalidBuildEvent)
	}

	switch event.Phase {
	case phaseQueued:
		queue.Enqueue(event.QueueID)
		return status.OnEnqueued(ctx, settings, entities.QueuedBuild{
			QueueID:   event.QueueID,
			OwnerName: event.Owner,
			Head:      event.Head,
			URL:       event.URL,
		})
	case phaseCheckout:
		return status.OnCheckout(ctx, settings, event.build())
	case phaseCompleted:
		return status.OnCompleted(ctx, settings, event.build())
	default:
		return fmt.Errorf("%w: unknown phase %q", errInvalidBuildEvent, event.Phase)
	}
}
