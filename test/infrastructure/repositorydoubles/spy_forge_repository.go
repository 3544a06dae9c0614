//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// RecordedStatus is one CreateStatus call seen by SpyForgeRepository.
type RecordedStatus struct {
	Options entities.StatusOptions
	SHA     string
}

// SpyForgeRepository implements repositories.ForgeRepository as a configurable spy.
// Its webhook list is stateful: registered hooks show up in later listings.
type SpyForgeRepository struct {
	mu sync.Mutex

	// --- GetRepository ---
	Repository    *entities.Repository
	RepositoryErr error

	// --- GetBranches / GetBranch ---
	Branches    []entities.Branch
	BranchesErr error
	BranchErr   error
	// OnGetBranches runs before every branch listing, e.g. to cancel the scan midway.
	OnGetBranches func()

	// --- GetOrganization ---
	Organization    *entities.Organization
	OrganizationErr error

	// --- GetUser / GetAuthenticatedUser ---
	User    *entities.User
	UserErr error

	// --- GetRepositories / GetOrgRepositories ---
	UserRepositories    []entities.Repository
	UserRepositoriesErr error
	OrgRepositories     []entities.Repository
	OrgRepositoriesErr  error

	// --- webhooks ---
	Hooks       []entities.Webhook
	HooksErr    error
	RegisterErr error
	RemoveErr   error
	OrgHookErr  error

	// --- CheckPathExists, keyed by "branch:path" ---
	ExistingPaths map[string]bool

	// --- CreateStatus / CreateIssue ---
	StatusErr error
	IssueErr  error

	// --- recorded calls ---
	RegisteredHooks []entities.Webhook
	RemovedHooks    []entities.Webhook
	OrgHooks        []entities.Webhook
	Statuses        []RecordedStatus
	Issues          []entities.Issue
	CheckedPaths    []string
	BranchLookups   []string
	HookListings    int

	nextHookID int64
}

var _ repositories.ForgeRepository = (*SpyForgeRepository)(nil)

func (s *SpyForgeRepository) GetRepository(_ context.Context) (*entities.Repository, error) {
	return s.Repository, s.RepositoryErr
}

func (s *SpyForgeRepository) GetBranches(ctx context.Context) ([]entities.Branch, error) {
	if s.OnGetBranches != nil {
		s.OnGetBranches()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.BranchesErr != nil {
		return nil, s.BranchesErr
	}
	return s.Branches, nil
}

func (s *SpyForgeRepository) GetBranch(_ context.Context, name string) (*entities.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.BranchLookups = append(s.BranchLookups, name)
	if s.BranchErr != nil {
		return nil, s.BranchErr
	}
	for _, branch := range s.Branches {
		if branch.Name == name {
			found := branch
			return &found, nil
		}
	}
	return nil, nil
}

func (s *SpyForgeRepository) GetOrganization(ctx context.Context) (*entities.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Organization, s.OrganizationErr
}

func (s *SpyForgeRepository) GetUser(_ context.Context, _ string) (*entities.User, error) {
	return s.User, s.UserErr
}

func (s *SpyForgeRepository) GetAuthenticatedUser(_ context.Context) (*entities.User, error) {
	return s.User, s.UserErr
}

func (s *SpyForgeRepository) GetRepositories(ctx context.Context) ([]entities.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.UserRepositoriesErr != nil {
		return nil, s.UserRepositoriesErr
	}
	return s.UserRepositories, nil
}

func (s *SpyForgeRepository) GetOrgRepositories(ctx context.Context, _ string) ([]entities.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.OrgRepositoriesErr != nil {
		return nil, s.OrgRepositoriesErr
	}
	return s.OrgRepositories, nil
}

func (s *SpyForgeRepository) RegisterCommitWebHook(
	_ context.Context, hook entities.Webhook,
) (*entities.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RegisteredHooks = append(s.RegisteredHooks, hook)
	if s.RegisterErr != nil {
		return nil, s.RegisterErr
	}
	s.nextHookID++
	hook.ID = 100 + s.nextHookID
	s.Hooks = append(s.Hooks, hook)
	return &hook, nil
}

func (s *SpyForgeRepository) RemoveCommitWebHook(_ context.Context, hook entities.Webhook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RemovedHooks = append(s.RemovedHooks, hook)
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	kept := s.Hooks[:0]
	for _, existing := range s.Hooks {
		if existing.ID != hook.ID {
			kept = append(kept, existing)
		}
	}
	s.Hooks = kept
	return nil
}

func (s *SpyForgeRepository) CreateOrgWebHook(_ context.Context, hook entities.Webhook) (*entities.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.OrgHooks = append(s.OrgHooks, hook)
	if s.OrgHookErr != nil {
		return nil, s.OrgHookErr
	}
	hook.ID = int64(len(s.OrgHooks))
	return &hook, nil
}

func (s *SpyForgeRepository) GetWebHooks(_ context.Context) ([]entities.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.HookListings++
	if s.HooksErr != nil {
		return nil, s.HooksErr
	}
	return append([]entities.Webhook(nil), s.Hooks...), nil
}

func (s *SpyForgeRepository) CreateStatus(_ context.Context, opts entities.StatusOptions, commitSHA string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Statuses = append(s.Statuses, RecordedStatus{Options: opts, SHA: commitSHA})
	return s.StatusErr
}

func (s *SpyForgeRepository) CreateIssue(_ context.Context, issue entities.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Issues = append(s.Issues, issue)
	return s.IssueErr
}

func (s *SpyForgeRepository) CheckPathExists(_ context.Context, branch, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := branch + ":" + path
	s.CheckedPaths = append(s.CheckedPaths, key)
	return s.ExistingPaths[key]
}

func (s *SpyForgeRepository) IsPrivate(_ context.Context) bool {
	return s.Repository != nil && s.Repository.Private
}
