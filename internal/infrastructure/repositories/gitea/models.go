package gitea

import (
	"encoding/json"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

type userDTO struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (u userDTO) name() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Login
}

func (u userDTO) toEntity() entities.User {
	return entities.User{
		ID:        u.ID,
		Username:  u.name(),
		FullName:  u.FullName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

type repositoryDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FullName      string  `json:"full_name"`
	Owner         userDTO `json:"owner"`
	Description   string  `json:"description"`
	Private       bool    `json:"private"`
	Fork          bool    `json:"fork"`
	Empty         bool    `json:"empty"`
	DefaultBranch string  `json:"default_branch"`
	HTMLURL       string  `json:"html_url"`
	CloneURL      string  `json:"clone_url"`
	SSHURL        string  `json:"ssh_url"`
}

func (r repositoryDTO) toEntity() entities.Repository {
	return entities.Repository{
		ID:            r.ID,
		Name:          r.Name,
		FullName:      r.FullName,
		Owner:         r.Owner.name(),
		Description:   r.Description,
		Private:       r.Private,
		Fork:          r.Fork,
		Empty:         r.Empty,
		DefaultBranch: r.DefaultBranch,
		HTMLURL:       r.HTMLURL,
		CloneURL:      r.CloneURL,
		SSHURL:        r.SSHURL,
	}
}

type branchDTO struct {
	Name   string `json:"name"`
	Commit struct {
		ID string `json:"id"`
	} `json:"commit"`
}

func (b branchDTO) toEntity() entities.Branch {
	return entities.Branch{Name: b.Name, CommitHash: b.Commit.ID}
}

type organizationDTO struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

func (o organizationDTO) toEntity() entities.Organization {
	name := o.Username
	if name == "" {
		name = o.Name
	}
	return entities.Organization{
		Name:      name,
		FullName:  o.FullName,
		AvatarURL: o.AvatarURL,
		HTMLURL:   o.HTMLURL,
	}
}

type webhookConfigDTO struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Secret      string `json:"secret,omitempty"`
}

type webhookDTO struct {
	ID     int64            `json:"id,omitempty"`
	Type   string           `json:"type"`
	Config webhookConfigDTO `json:"config"`
	Events []string         `json:"events"`
	Active bool             `json:"active"`
}

func newWebhookDTO(hook entities.Webhook) webhookDTO {
	events := make([]string, 0, len(hook.Events))
	for _, event := range hook.Events {
		events = append(events, string(event))
	}
	return webhookDTO{
		ID:   hook.ID,
		Type: hook.Type,
		Config: webhookConfigDTO{
			URL:         hook.TargetURL,
			ContentType: hook.ContentType,
			Secret:      hook.Secret,
		},
		Events: events,
		Active: hook.Active,
	}
}

func (w webhookDTO) toEntity() entities.Webhook {
	events := make([]entities.WebhookEvent, 0, len(w.Events))
	for _, event := range w.Events {
		events = append(events, entities.WebhookEvent(event))
	}
	return entities.Webhook{
		ID:          w.ID,
		Type:        w.Type,
		TargetURL:   w.Config.URL,
		ContentType: w.Config.ContentType,
		Active:      w.Active,
		Events:      events,
		Secret:      w.Config.Secret,
	}
}

func encodeWebhook(hook entities.Webhook) ([]byte, error) {
	return json.Marshal(newWebhookDTO(hook))
}

func decodeWebhook(data []byte) (entities.Webhook, error) {
	var dto webhookDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return entities.Webhook{}, err
	}
	return dto.toEntity(), nil
}

type statusDTO struct {
	State       string `json:"state"`
	TargetURL   string `json:"target_url,omitempty"`
	Description string `json:"description,omitempty"`
	Context     string `json:"context"`
}

type issueDTO struct {
	Title  string  `json:"title"`
	Body   string  `json:"body,omitempty"`
	Labels []int64 `json:"labels,omitempty"`
}
