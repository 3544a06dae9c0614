package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

// SyncHooksController handles the "sync-hooks" subcommand.
type SyncHooksController struct {
	sync   commands.WebhookSync
	owners *memory.SourceOwnerRepository
}

// NewSyncHooksController creates a new SyncHooksController.
func NewSyncHooksController(sync commands.WebhookSync, owners *memory.SourceOwnerRepository) *SyncHooksController {
	return &SyncHooksController{sync: sync, owners: owners}
}

// GetBind returns the Cobra command metadata for the sync-hooks controller.
func (it *SyncHooksController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync-hooks",
		Short: "Register the callback webhook on every tracked repository",
		Long: `Make sure every tracked source with automatic hook registration
has exactly one webhook pointing at the callback URL.

With --remove, the webhooks are deleted instead, except on
repositories another configured owner still tracks.`,
	}
}

// Execute reconciles the webhooks of the configured owners once.
func (it *SyncHooksController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	it.owners.Load(settings.Owners)

	ownerFilter, _ := cmd.Flags().GetString("owner")
	remove, _ := cmd.Flags().GetBool("remove")

	failures := 0
	for _, owner := range settings.Owners {
		if ownerFilter != "" && owner.Name != ownerFilter {
			continue
		}
		if remove {
			failures += it.sync.Remove(ctx, settings, owner)
		} else {
			failures += it.sync.Register(ctx, settings, owner)
		}
	}

	if failures > 0 {
		logger.Errorf("Webhook synchronization finished with %d failures", failures)
		return
	}
	logger.Info("Webhook synchronization finished")
}

// AddFlags adds the sync-hooks-specific flags to the given Cobra command.
func (it *SyncHooksController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Only process this configured owner")
	cmd.Flags().Bool("remove", false, "Remove the webhooks instead of registering them")
}
