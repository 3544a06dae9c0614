package commands

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// Discover is the interface for repository and branch discovery.
type Discover interface {
	Execute(ctx context.Context, settings *entities.Settings, navigator entities.Navigator) ([]entities.ProposedHead, error)
	RetrieveHeads(
		ctx context.Context,
		forge repositories.ForgeRepository,
		identity entities.RepositoryIdentity,
		filter entities.DiscoveryFilter,
	) ([]entities.ProposedHead, error)
}

// DiscoverCommand turns the repositories and branches of an owner into proposed heads.
// Every call queries the forge again.
type DiscoverCommand struct {
	forges repositories.ForgeProvider
}

// NewDiscoverCommand creates a new DiscoverCommand.
func NewDiscoverCommand(forges repositories.ForgeProvider) *DiscoverCommand {
	return &DiscoverCommand{forges: forges}
}

// Execute scans every repository of the navigator's owner. Organization repositories
// come first, then the user-scoped listing of the same name; duplicates are kept.
// The scan stops at the first cancellation.
func (it *DiscoverCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	navigator entities.Navigator,
) ([]entities.ProposedHead, error) {
	forge, err := openForge(it.forges, settings, navigator.Owner, "", navigator.CredentialsID)
	if err != nil {
		return nil, err
	}

	candidates, err := it.listCandidates(ctx, forge, navigator.Owner)
	if err != nil {
		return nil, err
	}

	var accepted []entities.RepositoryIdentity
	for _, repo := range candidates {
		if !navigator.Filter.Included(repo.Name) {
			logger.Debugf("Skipping %s/%s: not included by %q", navigator.Owner, repo.Name, navigator.Filter.Includes)
			continue
		}
		owner := repo.Owner
		if owner == "" {
			owner = navigator.Owner
		}
		accepted = append(accepted, entities.RepositoryIdentity{Owner: owner, Name: repo.Name})
	}
	logger.Infof("Scanning %d repositories of %q", len(accepted), navigator.Owner)

	results := make([][]entities.ProposedHead, len(accepted))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, settings.Discovery.Concurrency))
	for i, identity := range accepted {
		group.Go(func() error {
			repoForge, openErr := openForge(it.forges, settings, identity.Owner, identity.Name, navigator.CredentialsID)
			if openErr != nil {
				return openErr
			}
			heads, retrieveErr := it.RetrieveHeads(groupCtx, repoForge, identity, navigator.Filter)
			if retrieveErr != nil {
				return retrieveErr
			}
			results[i] = heads
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var heads []entities.ProposedHead
	for _, found := range results {
		heads = append(heads, found...)
	}
	return heads, nil
}

func (it *DiscoverCommand) listCandidates(
	ctx context.Context,
	forge repositories.ForgeRepository,
	owner string,
) ([]entities.Repository, error) {
	var candidates []entities.Repository

	org, err := forge.GetOrganization(ctx)
	switch {
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warnf("Could not look up organization %q: %v", owner, err)
	case org != nil:
		orgRepos, listErr := forge.GetOrgRepositories(ctx, org.Name)
		if listErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warnf("Could not list repositories of organization %q: %v", org.Name, listErr)
		}
		candidates = append(candidates, orgRepos...)
	default:
		if user, userErr := forge.GetUser(ctx, owner); userErr == nil && user != nil {
			logger.Debugf("%q is a user account (%s)", owner, user.FullName)
		}
	}

	userRepos, err := forge.GetRepositories(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warnf("Could not list repositories of user %q: %v", owner, err)
	}
	return append(candidates, userRepos...), nil
}

// RetrieveHeads proposes the branches of one repository that are included, not excluded
// and meet the criteria, in forge order. A failed branch listing yields no heads unless
// the context is done.
func (it *DiscoverCommand) RetrieveHeads(
	ctx context.Context,
	forge repositories.ForgeRepository,
	identity entities.RepositoryIdentity,
	filter entities.DiscoveryFilter,
) ([]entities.ProposedHead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	branches, err := forge.GetBranches(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warnf("Could not list branches of %s: %v", identity, err)
		return nil, nil
	}

	heads := make([]entities.ProposedHead, 0, len(branches))
	for _, branch := range branches {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !filter.BranchIncluded(branch.Name) {
			logger.Debugf("Skipping %s@%s: not included by %q", identity, branch.Name, filter.BranchIncludes)
			continue
		}
		if filter.Excluded(branch.Name) {
			logger.Debugf("Skipping %s@%s: excluded by %q", identity, branch.Name, filter.Excludes)
			continue
		}
		if filter.Criteria != nil {
			matches, criteriaErr := filter.Criteria.IsHead(ctx, branchProbe{forge: forge, branch: branch})
			if criteriaErr != nil {
				logger.Warnf("Could not evaluate criteria on %s@%s: %v", identity, branch.Name, criteriaErr)
				continue
			}
			if !matches {
				logger.Debugf("Skipping %s@%s: criteria not met", identity, branch.Name)
				continue
			}
		}
		heads = append(heads, entities.ProposedHead{
			Owner:      identity.Owner,
			Repository: identity.Name,
			Head:       branch.Name,
			Ref:        plumbing.NewBranchReferenceName(branch.Name).String(),
			Hash:       branch.CommitHash,
		})
	}
	return heads, nil
}
