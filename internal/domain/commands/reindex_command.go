package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// Reindex is the interface for re-scanning the sources named by an inbound forge event.
type Reindex interface {
	Execute(ctx context.Context, settings *entities.Settings, event entities.PushEvent) ([]entities.ProposedHead, error)
}

// ReindexCommand re-scans every forge source pointing at the repository of an event.
type ReindexCommand struct {
	forges   repositories.ForgeProvider
	owners   repositories.SourceOwnerRepository
	discover Discover
}

// NewReindexCommand creates a new ReindexCommand.
func NewReindexCommand(
	forges repositories.ForgeProvider,
	owners repositories.SourceOwnerRepository,
	discover Discover,
) *ReindexCommand {
	return &ReindexCommand{forges: forges, owners: owners, discover: discover}
}

func (it *ReindexCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	event entities.PushEvent,
) ([]entities.ProposedHead, error) {
	identity := entities.RepositoryIdentity{Owner: event.Owner, Name: event.Repository}

	owners, err := it.owners.All(ctx)
	if err != nil {
		return nil, err
	}

	var heads []entities.ProposedHead
	matched := 0
	for _, owner := range owners {
		for _, source := range owner.Sources {
			if !source.IsForgeBacked() || source.Identity() != identity {
				continue
			}
			matched++

			forge, openErr := openForge(it.forges, settings, source.Owner, source.Repository, source.CredentialsID)
			if openErr != nil {
				logger.Errorf("Cannot re-scan %s for %q: %v", identity, owner.Name, openErr)
				continue
			}
			found, retrieveErr := it.discover.RetrieveHeads(ctx, forge, identity, source.Filter)
			if retrieveErr != nil {
				return heads, retrieveErr
			}
			logger.Infof("Re-scanned %s for %q after %s event: %d heads", identity, owner.Name, event.Event, len(found))
			heads = append(heads, found...)
		}
	}

	if matched == 0 {
		logger.Debugf("No tracked source for %s, ignoring %s event", identity, event.Event)
	}
	return heads, nil
}
