package gitea

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// ForgeRepository talks to the Gitea REST API on behalf of one owner and, optionally, one repository.
type ForgeRepository struct {
	serverURL   string
	owner       string
	repository  string
	credentials *entities.Credentials
	httpClient  *http.Client
	// readTimeout bounds the wait for each chunk of a response body.
	readTimeout time.Duration
}

// NewForgeRepository creates a Gitea client bound to conn.
func NewForgeRepository(conn entities.ForgeConnection) repositories.ForgeRepository {
	return &ForgeRepository{
		serverURL:   strings.TrimSuffix(conn.ServerURL, "/"),
		owner:       conn.Owner,
		repository:  conn.Repository,
		credentials: conn.Credentials,
		httpClient:  newHTTPClient(conn.Proxy),
		readTimeout: socketTimeout,
	}
}

func (it *ForgeRepository) repoPath(suffix string) string {
	return fmt.Sprintf("/api/v1/repos/%s/%s%s",
		url.PathEscape(it.owner), url.PathEscape(it.repository), suffix)
}

func (it *ForgeRepository) requireRepository() error {
	if it.repository == "" {
		return fmt.Errorf("no repository bound to the client of %q", it.owner)
	}
	return nil
}

func (it *ForgeRepository) GetRepository(ctx context.Context) (*entities.Repository, error) {
	if it.repository == "" {
		return nil, nil
	}
	var dto repositoryDTO
	if err := it.get(ctx, it.repoPath(""), &dto); err != nil {
		return nil, err
	}
	repo := dto.toEntity()
	return &repo, nil
}

func (it *ForgeRepository) GetBranches(ctx context.Context) ([]entities.Branch, error) {
	if err := it.requireRepository(); err != nil {
		return nil, err
	}
	var dtos []branchDTO
	if err := it.get(ctx, it.repoPath("/branches"), &dtos); err != nil {
		return nil, err
	}
	branches := make([]entities.Branch, 0, len(dtos))
	for _, dto := range dtos {
		branches = append(branches, dto.toEntity())
	}
	return branches, nil
}

func (it *ForgeRepository) GetBranch(ctx context.Context, name string) (*entities.Branch, error) {
	if err := it.requireRepository(); err != nil {
		return nil, err
	}
	var dto branchDTO
	if err := it.get(ctx, it.repoPath("/branches/"+url.PathEscape(name)), &dto); err != nil {
		if entities.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	branch := dto.toEntity()
	return &branch, nil
}

func (it *ForgeRepository) GetOrganization(ctx context.Context) (*entities.Organization, error) {
	var dto organizationDTO
	if err := it.get(ctx, "/api/v1/orgs/"+url.PathEscape(it.owner), &dto); err != nil {
		if entities.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	org := dto.toEntity()
	if org.HTMLURL == "" {
		org.HTMLURL = it.serverURL + "/" + url.PathEscape(org.Name)
	}
	return &org, nil
}

func (it *ForgeRepository) GetUser(ctx context.Context, username string) (*entities.User, error) {
	var dto userDTO
	if err := it.get(ctx, "/api/v1/users/"+url.PathEscape(username), &dto); err != nil {
		return nil, err
	}
	user := dto.toEntity()
	return &user, nil
}

func (it *ForgeRepository) GetAuthenticatedUser(ctx context.Context) (*entities.User, error) {
	var dto userDTO
	if err := it.get(ctx, "/api/v1/user", &dto); err != nil {
		return nil, err
	}
	user := dto.toEntity()
	return &user, nil
}

func (it *ForgeRepository) GetRepositories(ctx context.Context) ([]entities.Repository, error) {
	return it.listRepositories(ctx, "/api/v1/users/"+url.PathEscape(it.owner)+"/repos")
}

func (it *ForgeRepository) GetOrgRepositories(ctx context.Context, org string) ([]entities.Repository, error) {
	return it.listRepositories(ctx, "/api/v1/orgs/"+url.PathEscape(org)+"/repos")
}

func (it *ForgeRepository) listRepositories(ctx context.Context, endpoint string) ([]entities.Repository, error) {
	var dtos []repositoryDTO
	if err := it.get(ctx, endpoint, &dtos); err != nil {
		return nil, err
	}
	repos := make([]entities.Repository, 0, len(dtos))
	for _, dto := range dtos {
		repos = append(repos, dto.toEntity())
	}
	return repos, nil
}

func (it *ForgeRepository) RegisterCommitWebHook(
	ctx context.Context,
	hook entities.Webhook,
) (*entities.Webhook, error) {
	if err := it.requireRepository(); err != nil {
		return nil, err
	}
	return it.createWebhook(ctx, it.repoPath("/hooks"), hook)
}

func (it *ForgeRepository) CreateOrgWebHook(ctx context.Context, hook entities.Webhook) (*entities.Webhook, error) {
	return it.createWebhook(ctx, "/api/v1/orgs/"+url.PathEscape(it.owner)+"/hooks", hook)
}

func (it *ForgeRepository) createWebhook(
	ctx context.Context,
	endpoint string,
	hook entities.Webhook,
) (*entities.Webhook, error) {
	var created webhookDTO
	if err := it.post(ctx, endpoint, newWebhookDTO(hook), &created); err != nil {
		return nil, err
	}
	result := created.toEntity()
	return &result, nil
}

func (it *ForgeRepository) RemoveCommitWebHook(ctx context.Context, hook entities.Webhook) error {
	if err := it.requireRepository(); err != nil {
		return err
	}
	if hook.ID == 0 {
		return errors.New("cannot remove a webhook without id")
	}
	// this endpoint is addressed without the API prefix
	endpoint := fmt.Sprintf("/repos/%s/%s/hooks/%d",
		url.PathEscape(it.owner), url.PathEscape(it.repository), hook.ID)
	_, err := it.doRequest(ctx, http.MethodDelete, endpoint, nil, http.StatusNoContent)
	return err
}

func (it *ForgeRepository) GetWebHooks(ctx context.Context) ([]entities.Webhook, error) {
	if err := it.requireRepository(); err != nil {
		return nil, err
	}
	var dtos []webhookDTO
	if err := it.get(ctx, it.repoPath("/hooks"), &dtos); err != nil {
		return nil, err
	}
	hooks := make([]entities.Webhook, 0, len(dtos))
	for _, dto := range dtos {
		hooks = append(hooks, dto.toEntity())
	}
	return hooks, nil
}

func (it *ForgeRepository) CreateStatus(
	ctx context.Context,
	opts entities.StatusOptions,
	commitSHA string,
) error {
	if err := it.requireRepository(); err != nil {
		return err
	}
	body := statusDTO{
		State:       string(opts.State),
		TargetURL:   opts.TargetURL,
		Description: opts.Description,
		Context:     opts.Context,
	}
	return it.post(ctx, it.repoPath("/statuses/"+url.PathEscape(commitSHA)), body, nil)
}

func (it *ForgeRepository) CreateIssue(ctx context.Context, issue entities.Issue) error {
	if err := it.requireRepository(); err != nil {
		return err
	}
	body := issueDTO{Title: issue.Title, Body: issue.Body, Labels: issue.Labels}
	return it.post(ctx, it.repoPath("/issues"), body, nil)
}

func (it *ForgeRepository) CheckPathExists(ctx context.Context, branch, path string) bool {
	if it.repository == "" {
		return false
	}
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	endpoint := it.repoPath("/raw/" + url.PathEscape(branch) + "/" + strings.Join(segments, "/"))

	_, err := it.doRequest(ctx, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		if !entities.IsNotFound(err) {
			logger.Warnf("Could not check %q on %s/%s@%s: %v", path, it.owner, it.repository, branch, err)
		}
		return false
	}
	return true
}

func (it *ForgeRepository) IsPrivate(ctx context.Context) bool {
	repo, err := it.GetRepository(ctx)
	if err != nil {
		logger.Debugf("Could not resolve %s/%s: %v", it.owner, it.repository, err)
		return false
	}
	return repo != nil && repo.Private
}
