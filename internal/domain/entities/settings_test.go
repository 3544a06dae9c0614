//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".giteasync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should load a complete configuration and apply defaults", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
server_url: https://gitea.example.com
callback_url: https://ci.example.com/
credentials:
  bot:
    username: ci-bot
    password: inline-token
navigators:
  - owner: acme
    credentials_id: bot
    excludes: "exp*"
    auto_register_hooks: true
owners:
  - name: widgets-pipeline
    sources:
      - owner: acme
        repository: widgets
        credentials_id: bot
        auto_register_hook: true
        includes: "main release-*"
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "gitea", settings.ForgeType)
		assert.Equal(t, entities.DefaultStatusContext, settings.StatusContext)
		assert.Equal(t, entities.MarkerBackendFile, settings.Markers.Backend)
		assert.Equal(t, 4, settings.Discovery.Concurrency)
		assert.Equal(t, ":8080", settings.Listen.Address)
		require.Len(t, settings.Navigators, 1)
		assert.True(t, settings.Navigators[0].Filter.Excluded("exp-1"))
		assert.True(t, settings.Navigators[0].Filter.Included("widgets"))
		require.Len(t, settings.Owners, 1)
		assert.Equal(t, entities.SourceKindGitea, settings.Owners[0].Sources[0].Kind)
		assert.True(t, settings.Owners[0].Sources[0].IsHookManaged())
		assert.True(t, settings.Owners[0].Sources[0].Filter.BranchIncluded("release-3"))
		assert.False(t, settings.Owners[0].Sources[0].Filter.BranchIncluded("feature-x"))
	})

	t.Run("should expand environment references in secrets", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_GITEA_TOKEN", "env-token")
		t.Setenv("TEST_HOOK_SECRET", "env-secret")
		path := writeConfig(t, `
server_url: https://gitea.example.com
webhook_secret: ${TEST_HOOK_SECRET}
credentials:
  bot:
    username: ci-bot
    password: ${TEST_GITEA_TOKEN}
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "env-token", settings.Credentials["bot"].Password)
		assert.Equal(t, "env-secret", settings.WebhookSecret)
	})

	t.Run("should read secrets from files", func(t *testing.T) {
		t.Parallel()

		// given
		tokenFile := filepath.Join(t.TempDir(), "token.key")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token \n"), 0o600))
		path := writeConfig(t, "server_url: https://gitea.example.com\n"+
			"credentials:\n  bot:\n    username: ci-bot\n    password: "+tokenFile+"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "file-token", settings.Credentials["bot"].Password)
	})

	t.Run("should fail when the file does not exist", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should fail on malformed YAML", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "server_url: [unterminated")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSettingsPrepare(t *testing.T) {
	t.Parallel()

	t.Run("should require a server URL", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{}

		// when
		err := settings.Prepare()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server_url is required")
	})

	t.Run("should reject a server URL without scheme as a configuration error", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{ServerURL: "gitea.example.com"}

		// when
		err := settings.Prepare()

		// then
		var configErr *entities.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, "server_url", configErr.Field)
	})

	t.Run("should reject a malformed callback URL", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{ServerURL: "https://gitea.example.com", CallbackURL: "ftp://ci"}

		// when
		err := settings.Prepare()

		// then
		var configErr *entities.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, "callback_url", configErr.Field)
	})

	t.Run("should require a URL for remote marker backends", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			ServerURL: "https://gitea.example.com",
			Markers:   entities.MarkerSettings{Backend: entities.MarkerBackendNATS},
		}

		// when
		err := settings.Prepare()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "markers.url is required")
	})

	t.Run("should reject unknown marker backends", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			ServerURL: "https://gitea.example.com",
			Markers:   entities.MarkerSettings{Backend: "redis"},
		}

		// when
		err := settings.Prepare()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("should reject duplicated owner names", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			ServerURL: "https://gitea.example.com",
			Owners: []entities.SourceOwner{
				{Name: "pipeline"},
				{Name: "pipeline"},
			},
		}

		// when
		err := settings.Prepare()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owners[1].name \"pipeline\" is duplicated")
	})

	t.Run("should reject sources without repository", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			ServerURL: "https://gitea.example.com",
			Owners: []entities.SourceOwner{
				{Name: "pipeline", Sources: []entities.TrackedSource{{Owner: "acme"}}},
			},
		}

		// when
		err := settings.Prepare()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owners[0].sources[0] requires owner and repository")
	})

	t.Run("should require a navigator owner", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			ServerURL:  "https://gitea.example.com",
			Navigators: []entities.Navigator{{}},
		}

		// when
		err := settings.Prepare()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "navigators[0].owner is required")
	})
}

func TestSettingsHookURL(t *testing.T) {
	t.Parallel()

	t.Run("should append the webhook path to the callback root", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{CallbackURL: "https://ci.example.com/"}

		// when
		hookURL := settings.HookURL()

		// then
		assert.Equal(t, "https://ci.example.com/gitea-webhook/post", hookURL)
	})

	t.Run("should be empty without callback URL", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{}

		// when
		hookURL := settings.HookURL()

		// then
		assert.Empty(t, hookURL)
	})
}

func TestSettingsConnection(t *testing.T) {
	t.Parallel()

	t.Run("should attach known credentials and the proxy", func(t *testing.T) {
		t.Parallel()

		// given
		proxy := &entities.ProxySettings{Host: "proxy.local", Port: 3128}
		settings := &entities.Settings{
			ServerURL:   "https://gitea.example.com",
			Proxy:       proxy,
			Credentials: map[string]entities.Credentials{"bot": {Username: "ci-bot", Password: "tok"}},
		}

		// when
		conn := settings.Connection("acme", "widgets", "bot")

		// then
		require.NotNil(t, conn.Credentials)
		assert.Equal(t, "ci-bot", conn.Credentials.Username)
		assert.Equal(t, "http://proxy.local:3128", conn.Proxy.URL().String())
		assert.Equal(t, "acme", conn.Owner)
		assert.Equal(t, "widgets", conn.Repository)
	})

	t.Run("should connect anonymously with unknown credentials", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{ServerURL: "https://gitea.example.com"}

		// when
		conn := settings.Connection("acme", "", "missing")

		// then
		assert.Nil(t, conn.Credentials)
	})
}
