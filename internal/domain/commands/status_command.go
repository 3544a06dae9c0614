package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// Status is the interface for the commit status reporter.
type Status interface {
	OnEnqueued(ctx context.Context, settings *entities.Settings, item entities.QueuedBuild) error
	OnCheckout(ctx context.Context, settings *entities.Settings, build entities.Build) error
	OnCompleted(ctx context.Context, settings *entities.Settings, build entities.Build) error
}

// StatusCommand reports build progress as forge commit statuses.
// Forge failures are logged and never returned: reporting must not fail a build.
type StatusCommand struct {
	forges repositories.ForgeProvider
	owners repositories.SourceOwnerRepository
	queue  repositories.BuildQueueRepository
}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand(
	forges repositories.ForgeProvider,
	owners repositories.SourceOwnerRepository,
	queue repositories.BuildQueueRepository,
) *StatusCommand {
	return &StatusCommand{forges: forges, owners: owners, queue: queue}
}

// OnEnqueued sets a pending status on the commit the queued head currently points at,
// unless the item left the queue while the head was being resolved.
func (it *StatusCommand) OnEnqueued(
	ctx context.Context,
	settings *entities.Settings,
	item entities.QueuedBuild,
) error {
	source, ok := it.findSource(ctx, item.OwnerName)
	if !ok {
		return nil
	}
	forge, err := openForge(it.forges, settings, source.Owner, source.Repository, source.CredentialsID)
	if err != nil {
		logger.Warnf("Cannot report queued status of %q: %v", item.OwnerName, err)
		return nil
	}

	branch, err := forge.GetBranch(ctx, item.Head)
	if err != nil {
		logger.Warnf("Could not resolve %s@%s: %v", source.Identity(), item.Head, err)
		return nil
	}
	if branch == nil {
		logger.Debugf("Branch %s@%s not found, no queued status", source.Identity(), item.Head)
		return nil
	}
	if it.queue.HasLeft(ctx, item.QueueID) {
		logger.Debugf("Queue item %d already left the queue, skipping queued status", item.QueueID)
		return nil
	}

	it.send(ctx, settings, forge, source, statusUpdate{
		state:       entities.StatusPending,
		description: "Build queued",
		targetURL:   item.URL,
		head:        item.Head,
		hash:        branch.CommitHash,
	})
	return nil
}

// OnCheckout sets a pending status on the revision the build checked out.
func (it *StatusCommand) OnCheckout(ctx context.Context, settings *entities.Settings, build entities.Build) error {
	return it.report(ctx, settings, build, entities.StatusPending, "Build in progress")
}

// OnCompleted sets the status matching the build result.
func (it *StatusCommand) OnCompleted(ctx context.Context, settings *entities.Settings, build entities.Build) error {
	state, description := completionStatus(build.Result)
	return it.report(ctx, settings, build, state, description)
}

func completionStatus(result entities.BuildResult) (entities.StatusState, string) {
	switch result {
	case entities.BuildResultSuccess:
		return entities.StatusSuccess, "Build succeeded"
	case entities.BuildResultUnstable:
		return entities.StatusWarning, "Build is unstable"
	case entities.BuildResultFailure:
		return entities.StatusFailure, "Build failed"
	case entities.BuildResultNone:
		return entities.StatusPending, "Build in progress"
	default:
		return entities.StatusError, fmt.Sprintf("Build ended with %s", result)
	}
}

func (it *StatusCommand) report(
	ctx context.Context,
	settings *entities.Settings,
	build entities.Build,
	state entities.StatusState,
	description string,
) error {
	hash, err := revisionHash(build.Revision)
	if err != nil {
		logger.Errorf("Cannot report status of build #%d of %q: %v", build.Number, build.OwnerName, err)
		return err
	}
	if hash == "" {
		logger.Debugf("Build #%d of %q has no revision yet", build.Number, build.OwnerName)
		return nil
	}

	source, ok := it.findSource(ctx, build.OwnerName)
	if !ok {
		return nil
	}
	forge, err := openForge(it.forges, settings, source.Owner, source.Repository, source.CredentialsID)
	if err != nil {
		logger.Warnf("Cannot report status of build #%d of %q: %v", build.Number, build.OwnerName, err)
		return nil
	}

	it.send(ctx, settings, forge, source, statusUpdate{
		state:       state,
		description: description,
		targetURL:   build.URL,
		head:        build.Revision.HeadName(),
		hash:        hash,
		build:       build.Number,
		optional:    build.Result == entities.BuildResultNone,
	})
	return nil
}

func revisionHash(revision entities.Revision) (string, error) {
	switch rev := revision.(type) {
	case nil:
		return "", nil
	case entities.BranchRevision:
		return rev.Hash, nil
	case *entities.BranchRevision:
		if rev == nil {
			return "", nil
		}
		return rev.Hash, nil
	default:
		return "", fmt.Errorf("%w: %T", entities.ErrUnrecognizedRevision, revision)
	}
}

type statusUpdate struct {
	state       entities.StatusState
	description string
	targetURL   string
	head        string
	hash        string
	build       int
	// optional updates fail quietly
	optional bool
}

func (it *StatusCommand) send(
	ctx context.Context,
	settings *entities.Settings,
	forge repositories.ForgeRepository,
	source entities.TrackedSource,
	update statusUpdate,
) {
	statusContext := settings.StatusContext
	if statusContext == "" {
		statusContext = entities.DefaultStatusContext
	}

	err := forge.CreateStatus(ctx, entities.StatusOptions{
		State:       update.state,
		TargetURL:   update.targetURL,
		Description: update.description,
		Context:     statusContext,
	}, update.hash)
	if err != nil {
		if update.optional {
			logger.Debugf("Could not set %s status on %s@%s: %v", update.state, source.Identity(), update.hash, err)
		} else {
			logger.Warnf("Could not set %s status on %s@%s: %v", update.state, source.Identity(), update.hash, err)
		}
		return
	}
	logger.Infof("Set %s status on %s@%s", update.state, source.Identity(), update.hash)

	if update.state == entities.StatusFailure && source.BuildFailureLabelID > 0 {
		issue := entities.Issue{
			Title:  fmt.Sprintf("Build failure on %s", update.head),
			Body:   fmt.Sprintf("Build #%d failed on commit %s.\n\n%s", update.build, update.hash, update.targetURL),
			Labels: []int64{source.BuildFailureLabelID},
		}
		if issueErr := forge.CreateIssue(ctx, issue); issueErr != nil {
			logger.Warnf("Could not open build failure issue on %s: %v", source.Identity(), issueErr)
		}
	}
}

func (it *StatusCommand) findSource(ctx context.Context, ownerName string) (entities.TrackedSource, bool) {
	owner, err := it.owners.Get(ctx, ownerName)
	if err != nil {
		if errors.Is(err, entities.ErrOwnerNotFound) {
			logger.Debugf("%q is not tracked, no status to report", ownerName)
		} else {
			logger.Warnf("Could not look up %q: %v", ownerName, err)
		}
		return entities.TrackedSource{}, false
	}
	source, ok := owner.ForgeSource()
	if !ok {
		logger.Debugf("%q has no forge source, no status to report", ownerName)
	}
	return source, ok
}
