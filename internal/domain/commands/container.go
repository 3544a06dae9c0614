package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewDiscoverCommand); err != nil {
		return err
	}
	if err := container.Provide(NewWebhookSyncCommand); err != nil {
		return err
	}
	if err := container.Provide(NewOrgWebhookCommand); err != nil {
		return err
	}
	if err := container.Provide(NewStatusCommand); err != nil {
		return err
	}
	if err := container.Provide(NewReindexCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *DiscoverCommand) Discover {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *WebhookSyncCommand) WebhookSync {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *OrgWebhookCommand) OrgWebhook {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *StatusCommand) Status {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ReindexCommand) Reindex {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
