package repositories

import (
	"context"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

// ForgeRepository is the set of forge operations the integration relies on.
// An instance is bound to one owner and, optionally, one repository.
// Enumerations return an error instead of an empty slice when the call failed,
// so callers can tell "nothing there" from "could not look".
type ForgeRepository interface {
	// GetRepository returns nil when no repository is bound.
	GetRepository(ctx context.Context) (*entities.Repository, error)
	GetBranches(ctx context.Context) ([]entities.Branch, error)
	// GetBranch returns nil when the branch does not exist.
	GetBranch(ctx context.Context, name string) (*entities.Branch, error)
	// GetOrganization returns nil when the owner is a plain user.
	GetOrganization(ctx context.Context) (*entities.Organization, error)
	GetUser(ctx context.Context, username string) (*entities.User, error)
	GetAuthenticatedUser(ctx context.Context) (*entities.User, error)
	GetRepositories(ctx context.Context) ([]entities.Repository, error)
	GetOrgRepositories(ctx context.Context, org string) ([]entities.Repository, error)

	RegisterCommitWebHook(ctx context.Context, hook entities.Webhook) (*entities.Webhook, error)
	RemoveCommitWebHook(ctx context.Context, hook entities.Webhook) error
	CreateOrgWebHook(ctx context.Context, hook entities.Webhook) (*entities.Webhook, error)
	GetWebHooks(ctx context.Context) ([]entities.Webhook, error)

	CreateStatus(ctx context.Context, opts entities.StatusOptions, commitSHA string) error
	CreateIssue(ctx context.Context, issue entities.Issue) error

	CheckPathExists(ctx context.Context, branch, path string) bool
	IsPrivate(ctx context.Context) bool
}

// ForgeProvider opens forge clients by forge type.
type ForgeProvider interface {
	Get(forgeType string, conn entities.ForgeConnection) (ForgeRepository, error)
}
