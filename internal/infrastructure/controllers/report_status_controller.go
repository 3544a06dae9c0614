package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

// ReportStatusController handles the "report-status" subcommand.
type ReportStatusController struct {
	status commands.Status
	owners *memory.SourceOwnerRepository
	queue  *memory.BuildQueueRepository
}

// NewReportStatusController creates a new ReportStatusController.
func NewReportStatusController(
	status commands.Status,
	owners *memory.SourceOwnerRepository,
	queue *memory.BuildQueueRepository,
) *ReportStatusController {
	return &ReportStatusController{status: status, owners: owners, queue: queue}
}

// GetBind returns the Cobra command metadata for the report-status controller.
func (it *ReportStatusController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "report-status",
		Short: "Publish the commit status of one build",
		Long: `Set the forge commit status for a build phase of a configured owner.

Examples:
  giteasync report-status --owner widgets-pipeline --phase checkout --head main --hash 1a2b3c
  giteasync report-status --owner widgets-pipeline --phase completed --hash 1a2b3c --result FAILURE`,
	}
}

// Execute publishes the status.
func (it *ReportStatusController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	it.owners.Load(settings.Owners)

	event := buildEvent{}
	event.Phase, _ = cmd.Flags().GetString("phase")
	event.Owner, _ = cmd.Flags().GetString("owner")
	event.QueueID, _ = cmd.Flags().GetInt64("queue-id")
	event.Number, _ = cmd.Flags().GetInt("build")
	event.URL, _ = cmd.Flags().GetString("url")
	event.Head, _ = cmd.Flags().GetString("head")
	event.Hash, _ = cmd.Flags().GetString("hash")
	event.Result, _ = cmd.Flags().GetString("result")

	if dispatchErr := dispatchBuildEvent(ctx, settings, it.status, it.queue, event); dispatchErr != nil {
		logger.Errorf("Status report failed: %v", dispatchErr)
	}
}

// AddFlags adds the report-status-specific flags to the given Cobra command.
func (it *ReportStatusController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Configured owner the build belongs to")
	cmd.Flags().String("phase", phaseCompleted, "Build phase (queued, checkout, completed)")
	cmd.Flags().Int64("queue-id", 0, "Queue item id (queued phase)")
	cmd.Flags().Int("build", 0, "Build number")
	cmd.Flags().String("url", "", "Build URL linked from the status")
	cmd.Flags().String("head", "", "Branch the build runs on")
	cmd.Flags().String("hash", "", "Commit hash the build checked out")
	cmd.Flags().String("result", "", "Build result (SUCCESS, UNSTABLE, FAILURE, ABORTED, NOT_BUILT)")
}
