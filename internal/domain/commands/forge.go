package commands

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

func openForge(
	forges repositories.ForgeProvider,
	settings *entities.Settings,
	owner, repository, credentialsID string,
) (repositories.ForgeRepository, error) {
	return forges.Get(settings.ForgeType, settings.Connection(owner, repository, credentialsID))
}

// branchProbe answers path questions about one branch through the forge.
type branchProbe struct {
	forge  repositories.ForgeRepository
	branch entities.Branch
}

func (p branchProbe) Name() string {
	return p.branch.Name
}

func (p branchProbe) Ref() string {
	return plumbing.NewBranchReferenceName(p.branch.Name).String()
}

func (p branchProbe) Exists(ctx context.Context, path string) bool {
	return p.forge.CheckPathExists(ctx, p.branch.Name, path)
}
