package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

const lifecycleQueueSize = 256

type lifecycleEvent string

const (
	lifecycleCreated lifecycleEvent = "created"
	lifecycleUpdated lifecycleEvent = "updated"
	lifecycleDeleted lifecycleEvent = "deleted"
)

type lifecycleTask struct {
	id    uuid.UUID
	event lifecycleEvent
	owner entities.SourceOwner
}

// WebhookSync is the interface for the webhook lifecycle synchronizer.
type WebhookSync interface {
	Start(ctx context.Context, settings *entities.Settings)
	Stop()
	OnCreated(owner entities.SourceOwner)
	OnUpdated(owner entities.SourceOwner)
	OnDeleted(owner entities.SourceOwner)
	Register(ctx context.Context, settings *entities.Settings, owner entities.SourceOwner) int
	Remove(ctx context.Context, settings *entities.Settings, owner entities.SourceOwner) int
}

// WebhookSyncCommand keeps repository webhooks in line with the tracked sources.
// Lifecycle events are applied one at a time, in arrival order, by a single worker.
type WebhookSyncCommand struct {
	forges repositories.ForgeProvider
	owners repositories.SourceOwnerRepository

	mu    sync.Mutex
	tasks chan lifecycleTask
	done  chan struct{}
}

// NewWebhookSyncCommand creates a new WebhookSyncCommand.
func NewWebhookSyncCommand(
	forges repositories.ForgeProvider,
	owners repositories.SourceOwnerRepository,
) *WebhookSyncCommand {
	return &WebhookSyncCommand{forges: forges, owners: owners}
}

// Start launches the worker. Events queued before Start are dropped.
func (it *WebhookSyncCommand) Start(ctx context.Context, settings *entities.Settings) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.tasks != nil {
		logger.Warn("Webhook synchronizer already started")
		return
	}
	it.tasks = make(chan lifecycleTask, lifecycleQueueSize)
	it.done = make(chan struct{})
	go it.run(ctx, settings, it.tasks, it.done)
}

// Stop closes the queue and waits until every queued event was applied.
func (it *WebhookSyncCommand) Stop() {
	it.mu.Lock()
	tasks, done := it.tasks, it.done
	it.tasks, it.done = nil, nil
	it.mu.Unlock()

	if tasks == nil {
		return
	}
	close(tasks)
	<-done
}

func (it *WebhookSyncCommand) OnCreated(owner entities.SourceOwner) {
	it.enqueue(lifecycleCreated, owner)
}

func (it *WebhookSyncCommand) OnUpdated(owner entities.SourceOwner) {
	it.enqueue(lifecycleUpdated, owner)
}

func (it *WebhookSyncCommand) OnDeleted(owner entities.SourceOwner) {
	it.enqueue(lifecycleDeleted, owner)
}

func (it *WebhookSyncCommand) enqueue(event lifecycleEvent, owner entities.SourceOwner) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.tasks == nil {
		logger.Warnf("Webhook synchronizer is not running, dropping %s event of %q", event, owner.Name)
		return
	}
	it.tasks <- lifecycleTask{id: uuid.New(), event: event, owner: owner}
}

func (it *WebhookSyncCommand) run(
	ctx context.Context,
	settings *entities.Settings,
	tasks <-chan lifecycleTask,
	done chan<- struct{},
) {
	defer close(done)

	for task := range tasks {
		entry := logger.WithFields(logger.Fields{
			"task":  task.id.String(),
			"event": task.event,
			"item":  task.owner.Name,
		})
		entry.Debug("Applying lifecycle event")

		var failures int
		if task.event == lifecycleDeleted {
			failures = it.Remove(ctx, settings, task.owner)
		} else {
			failures = it.Register(ctx, settings, task.owner)
		}
		if failures > 0 {
			entry.Warnf("Lifecycle event applied with %d failures", failures)
		}
	}
}

// Register creates the callback webhook on every hook-managed source of owner that
// lacks one. It returns the number of sources that could not be reconciled.
func (it *WebhookSyncCommand) Register(
	ctx context.Context,
	settings *entities.Settings,
	owner entities.SourceOwner,
) int {
	hookURL := settings.HookURL()
	if hookURL == "" {
		logger.Warnf("No callback URL configured, skipping webhook registration of %q", owner.Name)
		return 0
	}

	failures := 0
	for _, source := range owner.HookManagedSources() {
		if err := it.registerSource(ctx, settings, source, hookURL); err != nil {
			logger.WithFields(logger.Fields{
				"owner":      source.Owner,
				"repository": source.Repository,
				"operation":  "register",
			}).Errorf("Failed to register webhook: %v", err)
			failures++
		}
	}
	return failures
}

func (it *WebhookSyncCommand) registerSource(
	ctx context.Context,
	settings *entities.Settings,
	source entities.TrackedSource,
	hookURL string,
) error {
	forge, err := openForge(it.forges, settings, source.Owner, source.Repository, source.CredentialsID)
	if err != nil {
		return err
	}

	// a failed listing must not be mistaken for "no hook yet"
	hooks, err := forge.GetWebHooks(ctx)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}
	if _, found := entities.FindWebhook(hooks, hookURL); found {
		logger.Debugf("Webhook already registered on %s", source.Identity())
		return nil
	}

	created, err := forge.RegisterCommitWebHook(ctx, entities.NewCallbackWebhook(hookURL, settings.WebhookSecret))
	if err != nil {
		return fmt.Errorf("create webhook: %w", err)
	}
	logger.Infof("Registered webhook %d on %s", created.ID, source.Identity())
	return nil
}

// Remove deletes the callback webhook of every hook-managed source of owner unless
// another tracked item still references the same repository. It returns the number
// of sources that could not be reconciled.
func (it *WebhookSyncCommand) Remove(
	ctx context.Context,
	settings *entities.Settings,
	owner entities.SourceOwner,
) int {
	hookURL := settings.HookURL()
	if hookURL == "" {
		logger.Warnf("No callback URL configured, skipping webhook removal of %q", owner.Name)
		return 0
	}

	failures := 0
	for _, source := range owner.HookManagedSources() {
		if err := it.removeSource(ctx, settings, owner.Name, source, hookURL); err != nil {
			logger.WithFields(logger.Fields{
				"owner":      source.Owner,
				"repository": source.Repository,
				"operation":  "remove",
			}).Errorf("Failed to remove webhook: %v", err)
			failures++
		}
	}
	return failures
}

func (it *WebhookSyncCommand) removeSource(
	ctx context.Context,
	settings *entities.Settings,
	ownerName string,
	source entities.TrackedSource,
	hookURL string,
) error {
	forge, err := openForge(it.forges, settings, source.Owner, source.Repository, source.CredentialsID)
	if err != nil {
		return err
	}

	hooks, err := forge.GetWebHooks(ctx)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}
	hook, found := entities.FindWebhook(hooks, hookURL)
	if !found {
		logger.Debugf("No webhook to remove on %s", source.Identity())
		return nil
	}

	referenced, err := it.referencedElsewhere(ctx, ownerName, source.Identity())
	if err != nil {
		return fmt.Errorf("list tracked items: %w", err)
	}
	if referenced {
		logger.Infof("Keeping webhook %d on %s, still used by another item", hook.ID, source.Identity())
		return nil
	}

	if err = forge.RemoveCommitWebHook(ctx, hook); err != nil {
		return fmt.Errorf("delete webhook %d: %w", hook.ID, err)
	}
	logger.Infof("Removed webhook %d from %s", hook.ID, source.Identity())
	return nil
}

func (it *WebhookSyncCommand) referencedElsewhere(
	ctx context.Context,
	ownerName string,
	identity entities.RepositoryIdentity,
) (bool, error) {
	owners, err := it.owners.All(ctx)
	if err != nil {
		return false, err
	}
	for _, owner := range owners {
		if owner.Name != ownerName && owner.References(identity) {
			return true, nil
		}
	}
	return false, nil
}
