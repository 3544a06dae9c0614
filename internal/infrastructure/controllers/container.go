package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewDiscoverController); err != nil {
		return err
	}
	if err := container.Provide(NewSyncHooksController); err != nil {
		return err
	}
	if err := container.Provide(NewOrgHooksController); err != nil {
		return err
	}
	if err := container.Provide(NewReportStatusController); err != nil {
		return err
	}
	if err := container.Provide(NewServeController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	discoverController *DiscoverController,
	syncHooksController *SyncHooksController,
	orgHooksController *OrgHooksController,
	reportStatusController *ReportStatusController,
	serveController *ServeController,
) *[]entities.Controller {
	return &[]entities.Controller{
		discoverController,
		syncHooksController,
		orgHooksController,
		reportStatusController,
		serveController,
	}
}
