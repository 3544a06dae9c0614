package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// OrgHooksController handles the "org-hooks" subcommand.
type OrgHooksController struct {
	command commands.OrgWebhook
	markers repositories.HookMarkerProvider
}

// NewOrgHooksController creates a new OrgHooksController.
func NewOrgHooksController(
	command commands.OrgWebhook,
	markers repositories.HookMarkerProvider,
) *OrgHooksController {
	return &OrgHooksController{command: command, markers: markers}
}

// GetBind returns the Cobra command metadata for the org-hooks controller.
func (it *OrgHooksController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "org-hooks",
		Short: "Register the callback webhook on every navigated organization",
		Long: `Request the organization-level webhook for each navigator with
automatic hook registration. Each organization is handled once:
a marker is recorded in the configured backend (file, nats or
postgres) and later runs skip marked organizations.`,
	}
}

// Execute registers the organization webhooks.
func (it *OrgHooksController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	markers, closeMarkers, err := it.markers.Open(ctx, settings.Markers)
	if err != nil {
		logger.Errorf("Failed to open %s marker store: %v", settings.Markers.Backend, err)
		return
	}
	defer closeMarkers()

	for _, navigator := range settings.Navigators {
		if execErr := it.command.Execute(ctx, settings, markers, navigator); execErr != nil {
			logger.Errorf("Organization webhook of %q failed: %v", navigator.Owner, execErr)
		}
	}
}
