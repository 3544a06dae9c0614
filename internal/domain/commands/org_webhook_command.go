package commands

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// OrgWebhook is the interface for organization-level webhook registration.
type OrgWebhook interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		markers repositories.HookMarkerRepository,
		navigator entities.Navigator,
	) error
}

// OrgWebhookCommand requests the organization webhook once per organization.
// Organization webhooks are never removed automatically.
type OrgWebhookCommand struct {
	forges repositories.ForgeProvider
	mu     sync.Mutex
}

// NewOrgWebhookCommand creates a new OrgWebhookCommand.
func NewOrgWebhookCommand(forges repositories.ForgeProvider) *OrgWebhookCommand {
	return &OrgWebhookCommand{forges: forges}
}

func (it *OrgWebhookCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	markers repositories.HookMarkerRepository,
	navigator entities.Navigator,
) error {
	if !navigator.AutoRegisterHooks {
		return nil
	}
	hookURL := settings.HookURL()
	if hookURL == "" {
		logger.Warnf("No callback URL configured, skipping organization webhook of %q", navigator.Owner)
		return nil
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	marked, err := markers.IsMarked(ctx, navigator.Owner)
	if err != nil {
		return fmt.Errorf("read marker of %q: %w", navigator.Owner, err)
	}
	if marked {
		logger.Debugf("Organization webhook of %q already requested", navigator.Owner)
		return nil
	}

	forge, err := openForge(it.forges, settings, navigator.Owner, "", navigator.CredentialsID)
	if err != nil {
		return err
	}
	org, err := forge.GetOrganization(ctx)
	if err != nil {
		return fmt.Errorf("look up organization %q: %w", navigator.Owner, err)
	}
	if org == nil {
		logger.Infof("%q is not an organization, skipping organization webhook", navigator.Owner)
		return nil
	}

	created, err := forge.CreateOrgWebHook(ctx, entities.NewCallbackWebhook(hookURL, settings.WebhookSecret))
	if err != nil {
		return fmt.Errorf("create organization webhook of %q: %w", navigator.Owner, err)
	}
	logger.Infof("Registered organization webhook %d on %q", created.ID, navigator.Owner)

	set, err := markers.Mark(ctx, navigator.Owner)
	if err != nil {
		return fmt.Errorf("write marker of %q: %w", navigator.Owner, err)
	}
	if !set {
		logger.Warnf("Marker of %q was set by another instance meanwhile", navigator.Owner)
	}
	return nil
}
