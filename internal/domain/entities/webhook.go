package entities

const (
	// WebhookType identifies hooks managed by this integration.
	WebhookType = "gitea"
	// WebhookContentType is the payload encoding requested from the forge.
	WebhookContentType = "json"
	// WebhookPath is appended to the callback root URL to build the hook target.
	WebhookPath = "gitea-webhook/post"
)

// WebhookEvent is a repository event the forge delivers to a hook.
type WebhookEvent string

const (
	WebhookEventPush        WebhookEvent = "push"
	WebhookEventCreate      WebhookEvent = "create"
	WebhookEventPullRequest WebhookEvent = "pull_request"
)

// Webhook is a forge-side subscription pointing at a callback URL.
// ID is zero until the forge has created the hook.
type Webhook struct {
	ID          int64
	Type        string
	TargetURL   string
	ContentType string
	Active      bool
	Events      []WebhookEvent
	Secret      string
}

// NewCallbackWebhook builds the hook this integration registers on repositories and organizations.
func NewCallbackWebhook(targetURL, secret string) Webhook {
	return Webhook{
		Type:        WebhookType,
		TargetURL:   targetURL,
		ContentType: WebhookContentType,
		Active:      true,
		Events:      []WebhookEvent{WebhookEventPush, WebhookEventCreate, WebhookEventPullRequest},
		Secret:      secret,
	}
}

// FindWebhook returns the first hook whose target equals targetURL.
func FindWebhook(hooks []Webhook, targetURL string) (Webhook, bool) {
	for _, hook := range hooks {
		if hook.TargetURL == targetURL {
			return hook, true
		}
	}
	return Webhook{}, false
}
