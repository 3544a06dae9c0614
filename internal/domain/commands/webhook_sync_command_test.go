//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/giteasync/test/infrastructure/repositorydoubles"
)

const expectedHookURL = "https://ci.example.com/gitea-webhook/post"

func widgetsOwner(name string) entities.SourceOwner {
	return entities.SourceOwner{
		Name:    name,
		Sources: []entities.TrackedSource{entitybuilders.NewTrackedSourceBuilder().BuildTrackedSource()},
	}
}

func TestWebhookSyncCommandRegister(t *testing.T) {
	t.Parallel()

	t.Run("should register the callback webhook only once across runs", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().WithWebhookSecret("s3cret").BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})
		owner := widgetsOwner("widgets-pipeline")

		// when
		first := cmd.Register(context.Background(), settings, owner)
		second := cmd.Register(context.Background(), settings, owner)

		// then
		assert.Zero(t, first)
		assert.Zero(t, second)
		require.Len(t, spy.RegisteredHooks, 1)
		require.Len(t, spy.Hooks, 1)
		hook := spy.RegisteredHooks[0]
		assert.Equal(t, expectedHookURL, hook.TargetURL)
		assert.Equal(t, entities.WebhookType, hook.Type)
		assert.Equal(t, entities.WebhookContentType, hook.ContentType)
		assert.True(t, hook.Active)
		assert.Equal(t, "s3cret", hook.Secret)
		assert.ElementsMatch(t, []entities.WebhookEvent{
			entities.WebhookEventPush, entities.WebhookEventCreate, entities.WebhookEventPullRequest,
		}, hook.Events)
	})

	t.Run("should ignore sources that are not forge backed or not hook managed", func(t *testing.T) {
		t.Parallel()

		// given
		provider := doubles.NewStubForgeProvider(nil)
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})
		owner := entities.SourceOwner{
			Name: "mixed",
			Sources: []entities.TrackedSource{
				entitybuilders.NewTrackedSourceBuilder().WithKind(entities.SourceKindGit).BuildTrackedSource(),
				entitybuilders.NewTrackedSourceBuilder().WithAutoRegisterHook(false).BuildTrackedSource(),
			},
		}

		// when
		failures := cmd.Register(context.Background(), settings, owner)

		// then
		assert.Zero(t, failures)
		assert.Empty(t, provider.Connections)
	})

	t.Run("should skip a source whose hook listing fails and continue with the next one", func(t *testing.T) {
		t.Parallel()

		// given
		broken := &doubles.SpyForgeRepository{HooksErr: errors.New("status 502")}
		healthy := &doubles.SpyForgeRepository{}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{
			"acme/broken":  broken,
			"acme/widgets": healthy,
		})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})
		owner := entities.SourceOwner{
			Name: "pipeline",
			Sources: []entities.TrackedSource{
				entitybuilders.NewTrackedSourceBuilder().WithRepository("acme", "broken").BuildTrackedSource(),
				entitybuilders.NewTrackedSourceBuilder().WithRepository("acme", "widgets").BuildTrackedSource(),
			},
		}

		// when
		failures := cmd.Register(context.Background(), settings, owner)

		// then
		assert.Equal(t, 1, failures)
		assert.Empty(t, broken.RegisteredHooks)
		assert.Len(t, healthy.RegisteredHooks, 1)
	})

	t.Run("should count a failed creation as a failure", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{RegisterErr: errors.New("status 403")}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})

		// when
		failures := cmd.Register(context.Background(), settings, widgetsOwner("pipeline"))

		// then
		assert.Equal(t, 1, failures)
		assert.Empty(t, spy.Hooks)
	})

	t.Run("should do nothing when no callback URL is configured", func(t *testing.T) {
		t.Parallel()

		// given
		provider := doubles.NewStubForgeProvider(nil)
		settings := entitybuilders.NewSettingsBuilder().WithCallbackURL("").BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})

		// when
		failures := cmd.Register(context.Background(), settings, widgetsOwner("pipeline"))

		// then
		assert.Zero(t, failures)
		assert.Empty(t, provider.Connections)
	})
}

func TestWebhookSyncCommandRemove(t *testing.T) {
	t.Parallel()

	t.Run("should keep the webhook while another item references the repository", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{
			Hooks: []entities.Webhook{{ID: 7, TargetURL: expectedHookURL}},
		}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		itemA := widgetsOwner("item-a")
		itemB := widgetsOwner("item-b")
		owners := &doubles.StubSourceOwnerRepository{Owners: []entities.SourceOwner{itemB}}
		cmd := commands.NewWebhookSyncCommand(provider, owners)

		// when
		failures := cmd.Remove(context.Background(), settings, itemA)

		// then
		assert.Zero(t, failures)
		assert.Empty(t, spy.RemovedHooks)
		assert.Len(t, spy.Hooks, 1)
	})

	t.Run("should remove the webhook once the last referencing item is deleted", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{
			Hooks: []entities.Webhook{
				{ID: 3, TargetURL: "https://other.example.com/hook"},
				{ID: 7, TargetURL: expectedHookURL},
			},
		}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})

		// when
		failures := cmd.Remove(context.Background(), settings, widgetsOwner("item-b"))

		// then
		assert.Zero(t, failures)
		require.Len(t, spy.RemovedHooks, 1)
		assert.Equal(t, int64(7), spy.RemovedHooks[0].ID)
		require.Len(t, spy.Hooks, 1)
		assert.Equal(t, int64(3), spy.Hooks[0].ID)
	})

	t.Run("should not consult other items when no webhook is present", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		owners := &doubles.StubSourceOwnerRepository{AllErr: errors.New("must not be called")}
		cmd := commands.NewWebhookSyncCommand(provider, owners)

		// when
		failures := cmd.Remove(context.Background(), settings, widgetsOwner("item-a"))

		// then
		assert.Zero(t, failures)
		assert.Empty(t, spy.RemovedHooks)
	})

	t.Run("should count a failed deletion as a failure", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{
			Hooks:     []entities.Webhook{{ID: 7, TargetURL: expectedHookURL}},
			RemoveErr: errors.New("status 500"),
		}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})

		// when
		failures := cmd.Remove(context.Background(), settings, widgetsOwner("item-a"))

		// then
		assert.Equal(t, 1, failures)
	})
}

func TestWebhookSyncCommandLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("should apply lifecycle events in arrival order", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyForgeRepository{}
		provider := doubles.NewStubForgeProvider(map[string]*doubles.SpyForgeRepository{"acme/widgets": spy})
		settings := entitybuilders.NewSettingsBuilder().BuildSettings()
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})
		owner := widgetsOwner("widgets-pipeline")

		// when
		cmd.Start(context.Background(), settings)
		cmd.OnCreated(owner)
		cmd.OnUpdated(owner)
		cmd.OnDeleted(owner)
		cmd.Stop()

		// then
		assert.Len(t, spy.RegisteredHooks, 1)
		assert.Len(t, spy.RemovedHooks, 1)
		assert.Empty(t, spy.Hooks)
		assert.Equal(t, 3, spy.HookListings)
	})

	t.Run("should drop events received while not running", func(t *testing.T) {
		t.Parallel()

		// given
		provider := doubles.NewStubForgeProvider(nil)
		cmd := commands.NewWebhookSyncCommand(provider, &doubles.StubSourceOwnerRepository{})

		// when
		cmd.OnCreated(widgetsOwner("widgets-pipeline"))
		cmd.Stop()

		// then
		assert.Empty(t, provider.Connections)
	})
}
